package funding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/identity"
	"github.com/rpggio/crowdvault/internal/repository"
)

// Service is the transition engine. Each operation runs inside a single
// store transaction; a failed precondition aborts the transaction before any
// partial state can leak.
type Service struct {
	store    repository.Store
	clock    Clock
	duration time.Duration
	logger   *slog.Logger
}

// NewService creates the engine. campaignDuration is the fixed window between
// project creation and its deadline.
func NewService(store repository.Store, clock Clock, campaignDuration time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, clock: clock, duration: campaignDuration, logger: logger}
}

// InitializeCounter creates the global project counter. A second call fails
// with ErrAlreadyInitialized; this is a guard, not an idempotent no-op.
func (s *Service) InitializeCounter(ctx context.Context, payer identity.PublicKey) (*Counter, error) {
	counter := &Counter{Address: addr.Counter(), Count: 0}

	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Counters().Create(ctx, counter); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return ErrAlreadyInitialized
			}
			return fmt.Errorf("creating counter: %w", err)
		}
		return r.Journal().Append(ctx, s.journalEntry("initialize_counter", payer.String(), ""))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("counter initialized", "address", counter.Address, "payer", payer)
	return counter, nil
}

// InitializeProject registers a new campaign and its empty vault, consuming
// one global sequence number.
func (s *Service) InitializeProject(ctx context.Context, creator identity.PublicKey, title, description string, fundingGoal uint64) (*Project, error) {
	if err := ValidateProjectInput(title, description, fundingGoal); err != nil {
		return nil, err
	}

	var project *Project
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		counterAddr := addr.Counter()
		if _, err := r.Counters().Get(ctx, counterAddr); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCounterNotInitialized
			}
			return fmt.Errorf("reading counter: %w", err)
		}

		projectID, err := r.Counters().Increment(ctx, counterAddr)
		if err != nil {
			return fmt.Errorf("incrementing counter: %w", err)
		}

		now := s.clock.Now()
		projectAddr := addr.Project(creator, projectID)
		project = &Project{
			Address:     projectAddr,
			Creator:     creator,
			ProjectID:   projectID,
			Title:       title,
			Description: description,
			FundingGoal: fundingGoal,
			Deadline:    now.Add(s.duration),
			Status:      StatusOpen,
			CreatedAt:   now,
		}
		if err := r.Projects().Create(ctx, project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		vault := &Vault{Address: addr.Vault(projectAddr), Project: projectAddr, TotalAmount: 0}
		if err := r.Vaults().Create(ctx, vault); err != nil {
			return fmt.Errorf("creating vault: %w", err)
		}

		details := fmt.Sprintf("project=%s id=%d goal=%d", projectAddr, projectID, fundingGoal)
		return r.Journal().Append(ctx, s.journalEntry("initialize_project", creator.String(), details))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"project", project.Address, "creator", creator, "id", project.ProjectID,
		"goal", project.FundingGoal, "deadline", project.Deadline)
	return project, nil
}

// Contribute locks funds from the contributor's wallet into the project
// vault and records the pledge. Each call with a distinct timestamp creates
// an independent contribution; a colliding timestamp fails with
// ErrContributionExists and the caller retries with a fresh one.
func (s *Service) Contribute(ctx context.Context, contributor identity.PublicKey, project addr.Address, amount uint64, timestamp int64) (*Contribution, error) {
	if err := ValidateContributionAmount(amount); err != nil {
		return nil, err
	}

	var contribution *Contribution
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		proj, err := s.getProject(ctx, r, project)
		if err != nil {
			return err
		}
		if proj.Status.IsFinalized() {
			return ErrProjectFinalized
		}

		vaultAddr := addr.Vault(project)
		vault, err := r.Vaults().Get(ctx, vaultAddr)
		if err != nil {
			return fmt.Errorf("reading vault: %w", err)
		}
		if vault.TotalAmount+amount < vault.TotalAmount {
			return ErrAmountOverflow
		}

		contribution = &Contribution{
			Address:     addr.Contribution(contributor, project, uint64(timestamp)),
			Contributor: contributor,
			Project:     project,
			Amount:      amount,
			Timestamp:   timestamp,
			Refunded:    false,
		}
		if err := r.Contributions().Create(ctx, contribution); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return ErrContributionExists
			}
			return fmt.Errorf("creating contribution: %w", err)
		}

		if err := r.Accounts().Debit(ctx, addr.Wallet(contributor), amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) || errors.Is(err, repository.ErrNotFound) {
				return ErrInsufficientFunds
			}
			return fmt.Errorf("debiting contributor: %w", err)
		}
		if err := r.Accounts().Credit(ctx, vaultAddr, amount); err != nil {
			return fmt.Errorf("crediting vault: %w", err)
		}
		if err := r.Vaults().SetTotal(ctx, vaultAddr, vault.TotalAmount+amount); err != nil {
			return fmt.Errorf("updating vault total: %w", err)
		}

		details := fmt.Sprintf("project=%s amount=%d ts=%d", project, amount, timestamp)
		return r.Journal().Append(ctx, s.journalEntry("contribute", contributor.String(), details))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contribution accepted",
		"contribution", contribution.Address, "project", project,
		"contributor", contributor, "amount", amount)
	return contribution, nil
}

// FinalizeProject resolves a campaign once its deadline has passed. Success
// sweeps the whole vault balance to the creator; failure leaves the vault
// untouched for per-contribution refunds. The transition is terminal.
func (s *Service) FinalizeProject(ctx context.Context, caller identity.PublicKey, project addr.Address) (*Project, error) {
	var finalized *Project
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		proj, err := s.getProject(ctx, r, project)
		if err != nil {
			return err
		}
		if proj.Creator != caller {
			return ErrUnauthorizedCreator
		}
		if proj.Status.IsFinalized() {
			return ErrProjectAlreadyFinalized
		}
		if s.clock.Now().Before(proj.Deadline) {
			return ErrProjectNotExpired
		}

		vaultAddr := addr.Vault(project)
		vault, err := r.Vaults().Get(ctx, vaultAddr)
		if err != nil {
			return fmt.Errorf("reading vault: %w", err)
		}

		status := StatusFailed
		if vault.TotalAmount >= proj.FundingGoal {
			status = StatusSucceeded
			if vault.TotalAmount > 0 {
				if err := r.Accounts().Debit(ctx, vaultAddr, vault.TotalAmount); err != nil {
					return fmt.Errorf("debiting vault: %w", err)
				}
				if err := r.Accounts().Credit(ctx, addr.Wallet(caller), vault.TotalAmount); err != nil {
					return fmt.Errorf("crediting creator: %w", err)
				}
			}
			if err := r.Vaults().SetTotal(ctx, vaultAddr, 0); err != nil {
				return fmt.Errorf("resetting vault total: %w", err)
			}
		}

		if err := r.Projects().SetStatus(ctx, project, status); err != nil {
			return fmt.Errorf("setting project status: %w", err)
		}

		proj.Status = status
		finalized = proj

		details := fmt.Sprintf("project=%s status=%s raised=%d goal=%d", project, status, vault.TotalAmount, proj.FundingGoal)
		return r.Journal().Append(ctx, s.journalEntry("finalize_project", caller.String(), details))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project finalized", "project", project, "status", finalized.Status)
	return finalized, nil
}

// ClaimRefund returns one pledge to its owner after a failed campaign. Each
// contribution refunds at most once.
func (s *Service) ClaimRefund(ctx context.Context, caller identity.PublicKey, project addr.Address, contribution addr.Address) (*Contribution, error) {
	var refunded *Contribution
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		proj, err := s.getProject(ctx, r, project)
		if err != nil {
			return err
		}
		if !proj.Status.IsFinalized() {
			return ErrProjectNotFinalized
		}
		if proj.Status.IsSuccess() {
			return ErrProjectSucceeded
		}

		contrib, err := r.Contributions().Get(ctx, contribution)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrContributionNotFound
			}
			return fmt.Errorf("reading contribution: %w", err)
		}
		if contrib.Contributor != caller {
			return ErrUnauthorizedContributor
		}
		if contrib.Project != project {
			return ErrInvalidContribution
		}
		if contrib.Refunded {
			return ErrAlreadyRefunded
		}

		vaultAddr := addr.Vault(project)
		vault, err := r.Vaults().Get(ctx, vaultAddr)
		if err != nil {
			return fmt.Errorf("reading vault: %w", err)
		}

		if err := r.Accounts().Debit(ctx, vaultAddr, contrib.Amount); err != nil {
			return fmt.Errorf("debiting vault: %w", err)
		}
		if err := r.Accounts().Credit(ctx, addr.Wallet(caller), contrib.Amount); err != nil {
			return fmt.Errorf("crediting contributor: %w", err)
		}
		if err := r.Vaults().SetTotal(ctx, vaultAddr, vault.TotalAmount-contrib.Amount); err != nil {
			return fmt.Errorf("updating vault total: %w", err)
		}
		if err := r.Contributions().MarkRefunded(ctx, contribution); err != nil {
			return fmt.Errorf("marking refunded: %w", err)
		}

		contrib.Refunded = true
		refunded = contrib

		details := fmt.Sprintf("project=%s contribution=%s amount=%d", project, contribution, contrib.Amount)
		return r.Journal().Append(ctx, s.journalEntry("claim_refund", caller.String(), details))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("refund claimed", "contribution", contribution, "project", project, "amount", refunded.Amount)
	return refunded, nil
}

// Airdrop credits a wallet account, creating it on first use. This is the
// devnet faucet, not a ledger transition; it exists so contributors can be
// funded without an external bank.
func (s *Service) Airdrop(ctx context.Context, wallet identity.PublicKey, amount uint64) (uint64, error) {
	var balance uint64
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		walletAddr := addr.Wallet(wallet)
		if err := r.Accounts().Credit(ctx, walletAddr, amount); err != nil {
			return fmt.Errorf("crediting wallet: %w", err)
		}
		b, err := r.Accounts().Balance(ctx, walletAddr)
		if err != nil {
			return fmt.Errorf("reading balance: %w", err)
		}
		balance = b
		return r.Journal().Append(ctx, s.journalEntry("airdrop", wallet.String(), fmt.Sprintf("amount=%d", amount)))
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("airdrop", "wallet", wallet, "amount", amount, "balance", balance)
	return balance, nil
}

// Counter returns the global counter record.
func (s *Service) Counter(ctx context.Context) (*Counter, error) {
	counter, err := s.store.Counters().Get(ctx, addr.Counter())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCounterNotInitialized
		}
		return nil, fmt.Errorf("reading counter: %w", err)
	}
	return counter, nil
}

// Project returns one project record.
func (s *Service) Project(ctx context.Context, project addr.Address) (*Project, error) {
	return s.getProject(ctx, s.store, project)
}

// Projects lists all project records.
func (s *Service) Projects(ctx context.Context) ([]Project, error) {
	return s.store.Projects().List(ctx)
}

// Vault returns the vault record for a project.
func (s *Service) Vault(ctx context.Context, project addr.Address) (*Vault, error) {
	vault, err := s.store.Vaults().Get(ctx, addr.Vault(project))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVaultNotFound
		}
		return nil, fmt.Errorf("reading vault: %w", err)
	}
	return vault, nil
}

// Contribution returns one pledge record.
func (s *Service) Contribution(ctx context.Context, contribution addr.Address) (*Contribution, error) {
	contrib, err := s.store.Contributions().Get(ctx, contribution)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContributionNotFound
		}
		return nil, fmt.Errorf("reading contribution: %w", err)
	}
	return contrib, nil
}

// Contributions lists all pledges against a project.
func (s *Service) Contributions(ctx context.Context, project addr.Address) ([]Contribution, error) {
	return s.store.Contributions().ListByProject(ctx, project)
}

// Balance returns an account balance; unknown accounts read as zero.
func (s *Service) Balance(ctx context.Context, address addr.Address) (uint64, error) {
	balance, err := s.store.Accounts().Balance(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading balance: %w", err)
	}
	return balance, nil
}

// RecentJournal returns the newest committed transitions.
func (s *Service) RecentJournal(ctx context.Context, limit int) ([]JournalEntry, error) {
	return s.store.Journal().List(ctx, limit)
}

func (s *Service) getProject(ctx context.Context, r repository.Repositories, project addr.Address) (*Project, error) {
	proj, err := r.Projects().Get(ctx, project)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("reading project: %w", err)
	}
	return proj, nil
}

func (s *Service) journalEntry(operation, signer, details string) *JournalEntry {
	return &JournalEntry{
		ID:        uuid.NewString(),
		Operation: operation,
		Signer:    signer,
		Details:   details,
		AppliedAt: s.clock.Now(),
	}
}
