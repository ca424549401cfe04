package knowledge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemDocStoreUpsertThenSearchFindsDoc(t *testing.T) {
	s := NewMemDocStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, RecipeDoc("r1", "Fix failed nginx", "restart nginx with systemctl", nil)))

	results, err := s.Search(ctx, "nginx", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "r1", results[0].ID)
}

func TestMemDocStoreUpsertReplacesIndexEntry(t *testing.T) {
	s := NewMemDocStore()
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, RecipeDoc("r1", "title", "about vim", nil)))
	require.NoError(t, s.Upsert(ctx, RecipeDoc("r1", "title", "about neovim now", nil)))

	results, _ := s.Search(ctx, "vim", 10)
	assert.Empty(t, results)

	results, _ = s.Search(ctx, "neovim", 10)
	assert.Len(t, results, 1)
}

func TestMemDocStoreDeleteRemovesFromSearch(t *testing.T) {
	s := NewMemDocStore()
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, RecipeDoc("r1", "t", "pacman package manager", nil)))
	require.NoError(t, s.Delete(ctx, "r1"))

	results, _ := s.Search(ctx, "pacman", 10)
	assert.Empty(t, results)

	_, ok, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecipeDocCarriesFlatTTL(t *testing.T) {
	d := RecipeDoc("r1", "t", "b", nil)
	assert.Equal(t, RecipeTTLDays, d.TTLDays)
	assert.False(t, d.Expired(time.Now()))
	assert.True(t, d.Expired(time.Now().Add(31*24*time.Hour)))
}
