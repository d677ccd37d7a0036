package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/redis/go-redis/v9"
)

// ReportCache stores analysis reports keyed by the SHA-256 of the image bytes.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// ContentKey hashes image bytes into a cache key.
func ContentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "analysis:" + hex.EncodeToString(sum[:])
}

func (r *ReportCache) SetReport(ctx context.Context, data []byte, report entity.AnalysisReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, ContentKey(data), raw, r.ttl).Err()
}

// GetReport returns (nil, nil) on a cache miss.
func (r *ReportCache) GetReport(ctx context.Context, data []byte) (*entity.AnalysisReport, error) {
	raw, err := r.client.Get(ctx, ContentKey(data)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report entity.AnalysisReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
