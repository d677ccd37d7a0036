package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { client.Close() })
	return NewReportCache(client, time.Minute), mr
}

func TestReportCacheRoundTrip(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()
	img := []byte("image-bytes")

	miss, err := cache.GetReport(ctx, img)
	require.NoError(t, err)
	assert.Nil(t, miss)

	report := entity.AnalysisReport{Filename: "a.png", BestFormat: entity.FormatWEBP}
	report.Basic.Width = 640
	require.NoError(t, cache.SetReport(ctx, img, report))

	hit, err := cache.GetReport(ctx, img)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "a.png", hit.Filename)
	assert.Equal(t, 640, hit.Basic.Width)
	assert.Equal(t, entity.FormatWEBP, hit.BestFormat)

	// ключ зависит только от содержимого
	other, err := cache.GetReport(ctx, []byte("other"))
	require.NoError(t, err)
	assert.Nil(t, other)

	mr.FastForward(2 * time.Minute)
	expired, err := cache.GetReport(ctx, img)
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestContentKey(t *testing.T) {
	assert.Equal(t, ContentKey([]byte("x")), ContentKey([]byte("x")))
	assert.NotEqual(t, ContentKey([]byte("x")), ContentKey([]byte("y")))
	assert.Len(t, ContentKey(nil), len("analysis:")+64)
}

func TestReportCacheUnavailable(t *testing.T) {
	cache, mr := newCache(t)
	mr.Close()

	_, err := cache.GetReport(context.Background(), []byte("x"))
	assert.Error(t, err)
	assert.Error(t, cache.Ping(context.Background()))
}
