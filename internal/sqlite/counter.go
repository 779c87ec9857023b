package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/repository"
)

// CounterRepository implements repository.CounterRepository for SQLite
type CounterRepository struct {
	db DBTX
}

// NewCounterRepository creates a new CounterRepository
func NewCounterRepository(db DBTX) *CounterRepository {
	return &CounterRepository{db: db}
}

// Create creates the counter record
func (r *CounterRepository) Create(ctx context.Context, counter *funding.Counter) error {
	query := `
		INSERT INTO counters (address, count)
		VALUES (?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, counter.Address.String(), int64(counter.Count))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create counter: %w", err)
	}

	return nil
}

// Get retrieves the counter record
func (r *CounterRepository) Get(ctx context.Context, address addr.Address) (*funding.Counter, error) {
	var addrText string
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT address, count FROM counters WHERE address = ?`,
		address.String()).Scan(&addrText, &count)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get counter: %w", err)
	}

	parsed, err := addr.Parse(addrText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse counter address: %w", err)
	}

	return &funding.Counter{Address: parsed, Count: uint64(count)}, nil
}

// Increment bumps the counter by one and returns the new value
func (r *CounterRepository) Increment(ctx context.Context, address addr.Address) (uint64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE counters SET count = count + 1 WHERE address = ?`,
		address.String())
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, repository.ErrNotFound
	}

	var count int64
	err = r.db.QueryRowContext(ctx,
		`SELECT count FROM counters WHERE address = ?`,
		address.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get new count: %w", err)
	}

	return uint64(count), nil
}
