package advice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownZeroHoursNeverSuppresses(t *testing.T) {
	c := NewCooldown()
	now := time.Now()
	c.Record("disk.warn", "sysadmin", now)
	assert.False(t, c.Active("disk.warn", "sysadmin", now, 0))
}

func TestCooldownSuppressesWithinWindow(t *testing.T) {
	c := NewCooldown()
	now := time.Now()
	c.Record("disk.warn", "sysadmin", now)
	assert.True(t, c.Active("disk.warn", "sysadmin", now.Add(time.Hour), 24))
	assert.False(t, c.Active("disk.warn", "sysadmin", now.Add(25*time.Hour), 24))
}

func TestCooldownIsKeyedByKindAndTeam(t *testing.T) {
	c := NewCooldown()
	now := time.Now()
	c.Record("disk.warn", "sysadmin", now)
	assert.False(t, c.Active("disk.warn", "other-team", now, 24))
	assert.False(t, c.Active("service.failed", "sysadmin", now, 24))
}
