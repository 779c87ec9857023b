package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/repository"
)

// AccountRepository implements repository.AccountRepository for SQLite
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Balance returns the current balance of an account
func (r *AccountRepository) Balance(ctx context.Context, address addr.Address) (uint64, error) {
	var lamports int64
	err := r.db.QueryRowContext(ctx,
		`SELECT lamports FROM accounts WHERE address = ?`,
		address.String()).Scan(&lamports)

	if err == sql.ErrNoRows {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return uint64(lamports), nil
}

// Credit adds funds to an account, creating it on first use
func (r *AccountRepository) Credit(ctx context.Context, address addr.Address, amount uint64) error {
	query := `
		INSERT INTO accounts (address, lamports)
		VALUES (?, ?)
		ON CONFLICT(address) DO UPDATE SET lamports = lamports + excluded.lamports
	`

	_, err := r.db.ExecContext(ctx, query, address.String(), int64(amount))
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	return nil
}

// Debit removes funds from an account. The balance guard lives in the query
// so a concurrent writer can never drive the balance negative.
func (r *AccountRepository) Debit(ctx context.Context, address addr.Address, amount uint64) error {
	query := `
		UPDATE accounts
		SET lamports = lamports - ?
		WHERE address = ? AND lamports >= ?
	`

	result, err := r.db.ExecContext(ctx, query, int64(amount), address.String(), int64(amount))
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if _, err := r.Balance(ctx, address); err != nil {
			return err
		}
		return repository.ErrInsufficientFunds
	}

	return nil
}
