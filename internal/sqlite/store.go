package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/crowdvault/internal/repository"
)

// Store implements repository.Store over SQLite. Reads outside a transaction
// go straight to the connection; WithinTx hands the callback a repository set
// bound to one transaction, giving the engine its all-or-nothing boundary.
type Store struct {
	db *DB
	repos
}

type repos struct {
	accounts      *AccountRepository
	counters      *CounterRepository
	projects      *ProjectRepository
	vaults        *VaultRepository
	contributions *ContributionRepository
	journal       *JournalRepository
}

func newRepos(db DBTX) repos {
	return repos{
		accounts:      NewAccountRepository(db),
		counters:      NewCounterRepository(db),
		projects:      NewProjectRepository(db),
		vaults:        NewVaultRepository(db),
		contributions: NewContributionRepository(db),
		journal:       NewJournalRepository(db),
	}
}

func (r repos) Accounts() repository.AccountRepository           { return r.accounts }
func (r repos) Counters() repository.CounterRepository           { return r.counters }
func (r repos) Projects() repository.ProjectRepository           { return r.projects }
func (r repos) Vaults() repository.VaultRepository               { return r.vaults }
func (r repos) Contributions() repository.ContributionRepository { return r.contributions }
func (r repos) Journal() repository.JournalRepository            { return r.journal }

// NewStore creates a Store over an open database.
func NewStore(db *DB) *Store {
	return &Store{db: db, repos: newRepos(db)}
}

// WithinTx runs fn inside one transaction, committing on success and rolling
// back on error or panic. Panics are rethrown after rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(newRepos(tx))
	return err
}
