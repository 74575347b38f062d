package history

import (
	"time"

	"github.com/google/uuid"

	"sentiguard/internal/domain/sentiment"
)

// Entry records one finished analysis request
type Entry struct {
	ID           uuid.UUID               `json:"id"`
	Domain       string                  `json:"domain"`
	Generation   uint64                  `json:"generation"`
	Params       map[string]string       `json:"params"`
	Phase        string                  `json:"phase"`
	Items        int                     `json:"items"`
	Distribution *sentiment.Distribution `json:"distribution,omitempty"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	CompletedAt  time.Time               `json:"completed_at"`
}
