package counter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RoomSageApp/RoomSage/internal/pkg/cache"
	"github.com/RoomSageApp/RoomSage/internal/pkg/database"
	"github.com/RoomSageApp/RoomSage/internal/pkg/subscription"
)

const analysesKey = "analysis:counters:runs"

// AddAnalysisRun increments the pending analysis counter for a user in Redis.
// Anonymous runs (userID 0) are not counted; they have no durable row.
func AddAnalysisRun(userID uint) error {
	if userID == 0 {
		return nil
	}
	ctx := context.Background()
	field := strconv.FormatUint(uint64(userID), 10)
	return cache.GetClient().HIncrBy(ctx, analysesKey, field, 1).Err()
}

// FlushAnalysisRuns drains pending counters and applies batched increments
// to user_subscriptions.analysis_count.
// Uses RENAME to a temporary key for atomic drain without losing in-flight increments.
func FlushAnalysisRuns() error {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", analysesKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", analysesKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		return err
	}

	pending, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	repo := subscription.NewRepository(db)

	for field, raw := range pending {
		userID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		delta, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || delta == 0 {
			continue
		}
		if err := repo.AddAnalysisCount(ctx, uint(userID), delta); err != nil {
			return err
		}
	}

	return rdb.Del(ctx, tmpKey).Err()
}
