package repo

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/catalog-sync/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisHistoryRepository stores reports in a capped Redis list, oldest at
// the head.
type RedisHistoryRepository struct {
	rdb *redis.Client
	key string
	max int64
}

func NewRedisHistoryRepository(rdb *redis.Client, key string, max int) *RedisHistoryRepository {
	if max <= 0 {
		max = 100
	}
	return &RedisHistoryRepository{rdb: rdb, key: key, max: int64(max)}
}

func (r *RedisHistoryRepository) Record(ctx context.Context, rep models.SyncReport) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, r.key, data)
	pipe.LTrim(ctx, r.key, -r.max, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record sync report: %w", err)
	}
	return nil
}

func (r *RedisHistoryRepository) Recent(ctx context.Context, limit int) ([]models.SyncReport, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	items, err := r.rdb.LRange(ctx, r.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read sync history: %w", err)
	}

	reports := make([]models.SyncReport, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		var rep models.SyncReport
		if err := json.UnmarshalFromString(items[i], &rep); err != nil {
			return nil, fmt.Errorf("decode sync report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
