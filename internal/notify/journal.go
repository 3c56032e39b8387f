package notify

import (
	"context"
	"fmt"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/repository/journal"
)

// Journal records notices in a repository for later audit.
type Journal struct {
	repo journal.Repository
}

// NewJournal creates a sink on repo.
func NewJournal(repo journal.Repository) *Journal {
	return &Journal{repo: repo}
}

// Notify appends the notice.
func (j *Journal) Notify(ctx context.Context, notice *domain.Notice) error {
	if err := j.repo.Append(ctx, notice); err != nil {
		return fmt.Errorf("journal notice: %w", err)
	}

	return nil
}
