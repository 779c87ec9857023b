package repository

import (
	"context"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/records"
)

// AccountRepository manages fund custody balances for wallet and vault
// accounts, in lamport-equivalent units.
type AccountRepository interface {
	// Balance returns the current balance, or ErrNotFound for an unknown address.
	Balance(ctx context.Context, address addr.Address) (uint64, error)
	// Credit adds funds, creating the account on first use.
	Credit(ctx context.Context, address addr.Address, amount uint64) error
	// Debit removes funds. Returns ErrInsufficientFunds when the balance is
	// too low and ErrNotFound for an unknown address.
	Debit(ctx context.Context, address addr.Address, amount uint64) error
}

// CounterRepository manages the global project counter record.
type CounterRepository interface {
	Create(ctx context.Context, counter *records.Counter) error
	Get(ctx context.Context, address addr.Address) (*records.Counter, error)
	// Increment bumps the count by one and returns the new value.
	Increment(ctx context.Context, address addr.Address) (uint64, error)
}

// ProjectRepository manages project records.
type ProjectRepository interface {
	Create(ctx context.Context, project *records.Project) error
	Get(ctx context.Context, address addr.Address) (*records.Project, error)
	List(ctx context.Context) ([]records.Project, error)
	SetStatus(ctx context.Context, address addr.Address, status records.ProjectStatus) error
}

// VaultRepository manages vault records. The mirrored account balance lives
// in AccountRepository.
type VaultRepository interface {
	Create(ctx context.Context, vault *records.Vault) error
	Get(ctx context.Context, address addr.Address) (*records.Vault, error)
	SetTotal(ctx context.Context, address addr.Address, total uint64) error
}

// ContributionRepository manages pledge records.
type ContributionRepository interface {
	Create(ctx context.Context, contribution *records.Contribution) error
	Get(ctx context.Context, address addr.Address) (*records.Contribution, error)
	ListByProject(ctx context.Context, project addr.Address) ([]records.Contribution, error)
	MarkRefunded(ctx context.Context, address addr.Address) error
}

// JournalRepository appends committed transitions to the operation log.
type JournalRepository interface {
	Append(ctx context.Context, entry *records.JournalEntry) error
	List(ctx context.Context, limit int) ([]records.JournalEntry, error)
}

// Repositories bundles all record repositories sharing one database handle.
type Repositories interface {
	Accounts() AccountRepository
	Counters() CounterRepository
	Projects() ProjectRepository
	Vaults() VaultRepository
	Contributions() ContributionRepository
	Journal() JournalRepository
}

// Store adds the atomic transaction boundary. Everything inside fn commits
// together or not at all.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}
