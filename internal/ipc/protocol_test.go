package ipc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponseShape(t *testing.T) {
	resp := errorResponse(json.RawMessage(`7`), CodeMethodNotFound, "unknown method: x")
	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Nil(t, resp.Result)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestResultResponseShape(t *testing.T) {
	resp := resultResponse(json.RawMessage(`7`), map[string]string{"ok": "yes"})
	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}
