package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/identity"
	"github.com/rpggio/crowdvault/internal/repository"
)

// ContributionRepository implements repository.ContributionRepository for SQLite
type ContributionRepository struct {
	db DBTX
}

// NewContributionRepository creates a new ContributionRepository
func NewContributionRepository(db DBTX) *ContributionRepository {
	return &ContributionRepository{db: db}
}

// Create creates a new contribution record
func (r *ContributionRepository) Create(ctx context.Context, contribution *funding.Contribution) error {
	query := `
		INSERT INTO contributions (address, contributor, project_address, amount, timestamp, refunded)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	refunded := 0
	if contribution.Refunded {
		refunded = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		contribution.Address.String(),
		contribution.Contributor.String(),
		contribution.Project.String(),
		int64(contribution.Amount),
		contribution.Timestamp,
		refunded,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create contribution: %w", err)
	}

	return nil
}

// Get retrieves a contribution by address
func (r *ContributionRepository) Get(ctx context.Context, address addr.Address) (*funding.Contribution, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT address, contributor, project_address, amount, timestamp, refunded
		 FROM contributions
		 WHERE address = ?`,
		address.String())

	contribution, err := scanContribution(row.Scan)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}

	return contribution, nil
}

// ListByProject returns a project's contributions in arrival order
func (r *ContributionRepository) ListByProject(ctx context.Context, project addr.Address) ([]funding.Contribution, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT address, contributor, project_address, amount, timestamp, refunded
		 FROM contributions
		 WHERE project_address = ?
		 ORDER BY timestamp ASC`,
		project.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []funding.Contribution
	for rows.Next() {
		contribution, err := scanContribution(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, *contribution)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contribution rows: %w", err)
	}

	return contributions, nil
}

// MarkRefunded flags a contribution as refunded
func (r *ContributionRepository) MarkRefunded(ctx context.Context, address addr.Address) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contributions SET refunded = 1 WHERE address = ?`,
		address.String())
	if err != nil {
		return fmt.Errorf("failed to mark contribution refunded: %w", err)
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

func scanContribution(scan func(dest ...any) error) (*funding.Contribution, error) {
	var (
		addrText        string
		contributorText string
		projectText     string
		amount          int64
		timestamp       int64
		refunded        int
	)

	if err := scan(&addrText, &contributorText, &projectText, &amount, &timestamp, &refunded); err != nil {
		return nil, err
	}

	address, err := addr.Parse(addrText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contribution address: %w", err)
	}
	contributor, err := identity.Parse(contributorText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contributor key: %w", err)
	}
	project, err := addr.Parse(projectText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contribution project address: %w", err)
	}

	return &funding.Contribution{
		Address:     address,
		Contributor: contributor,
		Project:     project,
		Amount:      uint64(amount),
		Timestamp:   timestamp,
		Refunded:    refunded != 0,
	}, nil
}
