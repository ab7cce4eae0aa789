package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdminRepository(t *testing.T) *AdminRepository {
	t.Helper()
	repo := NewAdminRepository(newTestDB(t))
	require.NoError(t, repo.MigrateTable())
	return repo
}

func TestAdminAddExistsRemove(t *testing.T) {
	repo := newTestAdminRepository(t)

	ok, err := repo.Exists(100)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Add(100, 1))

	ok, err = repo.Exists(100)
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := repo.Remove(100)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(100)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAdminListIDsOrdered(t *testing.T) {
	repo := newTestAdminRepository(t)

	require.NoError(t, repo.Add(300, 1))
	require.NoError(t, repo.Add(100, 1))
	require.NoError(t, repo.Add(200, 1))

	ids, err := repo.ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200, 300}, ids)
}

func TestAdminSeedOnlyWhenEmpty(t *testing.T) {
	repo := newTestAdminRepository(t)

	require.NoError(t, repo.Seed([]int64{10, 20}, 1))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// A second seed must not touch an already-populated table.
	require.NoError(t, repo.Seed([]int64{30}, 1))

	ok, err := repo.Exists(30)
	require.NoError(t, err)
	assert.False(t, ok)
}
