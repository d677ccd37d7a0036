package database

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycle(t *testing.T) {
	repo := NewJobRepository(storage.NewFileStorage(t.TempDir()))

	job := &entity.Job{
		ID:        "job-1",
		Status:    entity.StatusQueued,
		Request:   entity.Request{Kind: entity.KindConvert, Format: entity.FormatWEBP, Quality: 80},
		Sources:   []string{"a.png"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(job))
	require.NoError(t, repo.SaveSource(job.ID, 0, strings.NewReader("raw-bytes")))

	got, err := repo.FindByID("job-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusQueued, got.Status)
	assert.Equal(t, entity.KindConvert, got.Request.Kind)
	assert.True(t, job.CreatedAt.Equal(got.CreatedAt))

	src, err := repo.LoadSource(job.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "raw-bytes", string(src))

	require.NoError(t, repo.SaveOutput(job.ID, "a_converted.webp", strings.NewReader("webp")))
	assert.Equal(t, "jobs/job-1/outputs/a_converted.webp", repo.OutputPath(job.ID, "a_converted.webp"))

	rc, err := repo.OpenOutput(job.ID, "a_converted.webp")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "webp", string(data))

	_, err = repo.OpenOutput(job.ID, "missing.webp")
	assert.ErrorIs(t, err, entity.ErrJobNotFound)

	require.NoError(t, repo.Delete(job.ID))
	_, err = repo.FindByID(job.ID)
	assert.ErrorIs(t, err, entity.ErrJobNotFound)
	_, err = repo.LoadSource(job.ID, 0)
	assert.Error(t, err)

	assert.ErrorIs(t, repo.Delete(job.ID), entity.ErrJobNotFound)
}
