package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisadapter "sentiguard/internal/adapters/redis"
	"sentiguard/internal/domain/history"
	"sentiguard/pkg/errors"
)

const historyTTL = 7 * 24 * time.Hour

// HistoryRepository implements history.Repository as one capped Redis list per domain
type HistoryRepository struct {
	client *redisadapter.Client
	limit  int
}

// NewHistoryRepository creates a repository keeping at most limit entries per domain
func NewHistoryRepository(client *redisadapter.Client, limit int) *HistoryRepository {
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	return &HistoryRepository{
		client: client,
		limit:  limit,
	}
}

var _ history.Repository = (*HistoryRepository)(nil)

// Append prepends entry to its domain list
func (r *HistoryRepository) Append(ctx context.Context, entry *history.Entry) error {
	if err := r.client.PushCapped(ctx, r.getKey(entry.Domain), entry, r.limit, historyTTL); err != nil {
		return errors.Wrapf(err, "failed to append history entry: domain=%s", entry.Domain)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Undecodable entries are skipped.
func (r *HistoryRepository) Recent(ctx context.Context, domain string, limit int) ([]*history.Entry, error) {
	raw, err := r.client.Range(ctx, r.getKey(domain), limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read history: domain=%s", domain)
	}

	entries := make([]*history.Entry, 0, len(raw))
	for _, data := range raw {
		var entry history.Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (r *HistoryRepository) getKey(domain string) string {
	return fmt.Sprintf("sentiguard:history:%s", domain)
}
