package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/repository"
)

// VaultRepository implements repository.VaultRepository for SQLite
type VaultRepository struct {
	db DBTX
}

// NewVaultRepository creates a new VaultRepository
func NewVaultRepository(db DBTX) *VaultRepository {
	return &VaultRepository{db: db}
}

// Create creates a new vault record
func (r *VaultRepository) Create(ctx context.Context, vault *funding.Vault) error {
	query := `
		INSERT INTO vaults (address, project_address, total_amount)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		vault.Address.String(),
		vault.Project.String(),
		int64(vault.TotalAmount),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create vault: %w", err)
	}

	return nil
}

// Get retrieves a vault by address
func (r *VaultRepository) Get(ctx context.Context, address addr.Address) (*funding.Vault, error) {
	var (
		addrText    string
		projectText string
		totalAmount int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT address, project_address, total_amount FROM vaults WHERE address = ?`,
		address.String()).Scan(&addrText, &projectText, &totalAmount)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}

	vaultAddr, err := addr.Parse(addrText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vault address: %w", err)
	}
	projectAddr, err := addr.Parse(projectText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vault project address: %w", err)
	}

	return &funding.Vault{
		Address:     vaultAddr,
		Project:     projectAddr,
		TotalAmount: uint64(totalAmount),
	}, nil
}

// SetTotal replaces the running contribution total of a vault
func (r *VaultRepository) SetTotal(ctx context.Context, address addr.Address, total uint64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE vaults SET total_amount = ? WHERE address = ?`,
		int64(total), address.String())
	if err != nil {
		return fmt.Errorf("failed to set vault total: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
