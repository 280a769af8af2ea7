package counter

import (
	"context"
	"strconv"

	"github.com/editorfox/EditorFox/internal/pkg/cache"
)

const (
	uploadsKey = "editorfox:counters:uploads"
	deletesKey = "editorfox:counters:deletes"
)

// AddUpload increments the upload counter for a user scope in Redis.
// The empty scope is recorded under "-" so shared uploads are still counted.
func AddUpload(scope string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, uploadsKey, field(scope), 1).Err()
}

// AddDelete increments the delete counter for a user scope in Redis
func AddDelete(scope string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, deletesKey, field(scope), 1).Err()
}

// Uploads returns the per-scope upload totals
func Uploads() (map[string]int64, error) {
	return readHash(uploadsKey)
}

// Deletes returns the per-scope delete totals
func Deletes() (map[string]int64, error) {
	return readHash(deletesKey)
}

func readHash(key string) (map[string]int64, error) {
	ctx := context.Background()
	data, err := cache.GetClient().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int64, len(data))
	for scope, v := range data {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			continue
		}
		totals[scope] = n
	}
	return totals, nil
}

func field(scope string) string {
	if scope == "" {
		return "-"
	}
	return scope
}
