package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/repository"
)

// AccountRepository is a mock for repository.AccountRepository.
type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) Balance(ctx context.Context, address addr.Address) (uint64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *AccountRepository) Credit(ctx context.Context, address addr.Address, amount uint64) error {
	args := m.Called(ctx, address, amount)
	return args.Error(0)
}

func (m *AccountRepository) Debit(ctx context.Context, address addr.Address, amount uint64) error {
	args := m.Called(ctx, address, amount)
	return args.Error(0)
}

// CounterRepository is a mock for repository.CounterRepository.
type CounterRepository struct {
	mock.Mock
}

func (m *CounterRepository) Create(ctx context.Context, counter *funding.Counter) error {
	args := m.Called(ctx, counter)
	return args.Error(0)
}

func (m *CounterRepository) Get(ctx context.Context, address addr.Address) (*funding.Counter, error) {
	args := m.Called(ctx, address)
	if counter, ok := args.Get(0).(*funding.Counter); ok {
		return counter, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CounterRepository) Increment(ctx context.Context, address addr.Address) (uint64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(uint64), args.Error(1)
}

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, project *funding.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, address addr.Address) (*funding.Project, error) {
	args := m.Called(ctx, address)
	if project, ok := args.Get(0).(*funding.Project); ok {
		return project, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]funding.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]funding.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) SetStatus(ctx context.Context, address addr.Address, status funding.ProjectStatus) error {
	args := m.Called(ctx, address, status)
	return args.Error(0)
}

// VaultRepository is a mock for repository.VaultRepository.
type VaultRepository struct {
	mock.Mock
}

func (m *VaultRepository) Create(ctx context.Context, vault *funding.Vault) error {
	args := m.Called(ctx, vault)
	return args.Error(0)
}

func (m *VaultRepository) Get(ctx context.Context, address addr.Address) (*funding.Vault, error) {
	args := m.Called(ctx, address)
	if vault, ok := args.Get(0).(*funding.Vault); ok {
		return vault, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VaultRepository) SetTotal(ctx context.Context, address addr.Address, total uint64) error {
	args := m.Called(ctx, address, total)
	return args.Error(0)
}

// ContributionRepository is a mock for repository.ContributionRepository.
type ContributionRepository struct {
	mock.Mock
}

func (m *ContributionRepository) Create(ctx context.Context, contribution *funding.Contribution) error {
	args := m.Called(ctx, contribution)
	return args.Error(0)
}

func (m *ContributionRepository) Get(ctx context.Context, address addr.Address) (*funding.Contribution, error) {
	args := m.Called(ctx, address)
	if contribution, ok := args.Get(0).(*funding.Contribution); ok {
		return contribution, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContributionRepository) ListByProject(ctx context.Context, project addr.Address) ([]funding.Contribution, error) {
	args := m.Called(ctx, project)
	if list, ok := args.Get(0).([]funding.Contribution); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContributionRepository) MarkRefunded(ctx context.Context, address addr.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

// JournalRepository is a mock for repository.JournalRepository.
type JournalRepository struct {
	mock.Mock
}

func (m *JournalRepository) Append(ctx context.Context, entry *funding.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *JournalRepository) List(ctx context.Context, limit int) ([]funding.JournalEntry, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]funding.JournalEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Store bundles mock repositories behind the repository.Store interface.
// WithinTx runs fn against the same mocks with no transaction semantics.
type Store struct {
	AccountsMock      *AccountRepository
	CountersMock      *CounterRepository
	ProjectsMock      *ProjectRepository
	VaultsMock        *VaultRepository
	ContributionsMock *ContributionRepository
	JournalMock       *JournalRepository
}

// NewStore creates a Store with fresh mocks for every repository.
func NewStore() *Store {
	return &Store{
		AccountsMock:      &AccountRepository{},
		CountersMock:      &CounterRepository{},
		ProjectsMock:      &ProjectRepository{},
		VaultsMock:        &VaultRepository{},
		ContributionsMock: &ContributionRepository{},
		JournalMock:       &JournalRepository{},
	}
}

func (s *Store) Accounts() repository.AccountRepository           { return s.AccountsMock }
func (s *Store) Counters() repository.CounterRepository           { return s.CountersMock }
func (s *Store) Projects() repository.ProjectRepository           { return s.ProjectsMock }
func (s *Store) Vaults() repository.VaultRepository               { return s.VaultsMock }
func (s *Store) Contributions() repository.ContributionRepository { return s.ContributionsMock }
func (s *Store) Journal() repository.JournalRepository            { return s.JournalMock }

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return fn(s)
}

// AssertExpectations asserts expectations on every mock repository.
func (s *Store) AssertExpectations(t mock.TestingT) {
	s.AccountsMock.AssertExpectations(t)
	s.CountersMock.AssertExpectations(t)
	s.ProjectsMock.AssertExpectations(t)
	s.VaultsMock.AssertExpectations(t)
	s.ContributionsMock.AssertExpectations(t)
	s.JournalMock.AssertExpectations(t)
}
