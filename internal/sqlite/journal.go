package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/crowdvault/internal/domain/funding"
)

// JournalRepository implements repository.JournalRepository for SQLite
type JournalRepository struct {
	db DBTX
}

// NewJournalRepository creates a new JournalRepository
func NewJournalRepository(db DBTX) *JournalRepository {
	return &JournalRepository{db: db}
}

// Append records one committed transition
func (r *JournalRepository) Append(ctx context.Context, entry *funding.JournalEntry) error {
	query := `
		INSERT INTO journal (id, operation, signer, details, applied_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Operation,
		entry.Signer,
		entry.Details,
		entry.AppliedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	return nil
}

// List returns the most recent entries, newest first
func (r *JournalRepository) List(ctx context.Context, limit int) ([]funding.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, operation, signer, details, applied_at
		 FROM journal
		 ORDER BY applied_at DESC, id DESC
		 LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []funding.JournalEntry
	for rows.Next() {
		var entry funding.JournalEntry
		var appliedAt int64
		if err := rows.Scan(&entry.ID, &entry.Operation, &entry.Signer, &entry.Details, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.AppliedAt = time.Unix(appliedAt, 0).UTC()
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}

	return entries, nil
}
