package clientdata

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJobRun(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store("yahoo", "fresh", testPayload{Symbol: "A"}, time.Hour))
	require.NoError(t, repo.Store("yahoo", "stale", testPayload{Symbol: "B"}, -time.Minute))

	job := NewCleanupJob(repo, zerolog.Nop())
	require.NoError(t, job.Run())

	var out testPayload
	found, err := repo.Get("yahoo", "stale", &out)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.Get("yahoo", "fresh", &out)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCleanupJobName(t *testing.T) {
	job := NewCleanupJob(NewRepository(setupTestDB(t)), zerolog.Nop())
	assert.Equal(t, "cache_cleanup", job.Name())
}
