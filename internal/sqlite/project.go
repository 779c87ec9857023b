package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/identity"
	"github.com/rpggio/crowdvault/internal/repository"
)

// ProjectRepository implements repository.ProjectRepository for SQLite
type ProjectRepository struct {
	db DBTX
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project record
func (r *ProjectRepository) Create(ctx context.Context, project *funding.Project) error {
	query := `
		INSERT INTO projects (address, creator, project_id, title, description, funding_goal, deadline, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		project.Address.String(),
		project.Creator.String(),
		int64(project.ProjectID),
		project.Title,
		project.Description,
		int64(project.FundingGoal),
		project.Deadline.Unix(),
		string(project.Status),
		project.CreatedAt.Unix(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by address
func (r *ProjectRepository) Get(ctx context.Context, address addr.Address) (*funding.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT address, creator, project_id, title, description, funding_goal, deadline, status, created_at
		 FROM projects
		 WHERE address = ?`,
		address.String())

	project, err := scanProject(row.Scan)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// List returns all projects ordered by assigned ID
func (r *ProjectRepository) List(ctx context.Context) ([]funding.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT address, creator, project_id, title, description, funding_goal, deadline, status, created_at
		 FROM projects
		 ORDER BY project_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []funding.Project
	for rows.Next() {
		project, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// SetStatus updates the lifecycle status of a project
func (r *ProjectRepository) SetStatus(ctx context.Context, address addr.Address, status funding.ProjectStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET status = ? WHERE address = ?`,
		string(status), address.String())
	if err != nil {
		return fmt.Errorf("failed to set project status: %w", err)
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

func scanProject(scan func(dest ...any) error) (*funding.Project, error) {
	var (
		addrText    string
		creatorText string
		projectID   int64
		title       string
		description string
		fundingGoal int64
		deadline    int64
		status      string
		createdAt   int64
	)

	if err := scan(&addrText, &creatorText, &projectID, &title, &description, &fundingGoal, &deadline, &status, &createdAt); err != nil {
		return nil, err
	}

	address, err := addr.Parse(addrText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse project address: %w", err)
	}
	creator, err := identity.Parse(creatorText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse creator key: %w", err)
	}

	return &funding.Project{
		Address:     address,
		Creator:     creator,
		ProjectID:   uint64(projectID),
		Title:       title,
		Description: description,
		FundingGoal: uint64(fundingGoal),
		Deadline:    time.Unix(deadline, 0).UTC(),
		Status:      funding.ProjectStatus(status),
		CreatedAt:   time.Unix(createdAt, 0).UTC(),
	}, nil
}
