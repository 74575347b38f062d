package history

import "context"

// Repository stores recent entries per domain, newest first
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, domain string, limit int) ([]*Entry, error)
}
