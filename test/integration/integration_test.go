package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/identity"
	"github.com/rpggio/crowdvault/internal/sqlite"
)

const campaignDuration = 48 * time.Hour

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	db    *sqlite.DB
	svc   *funding.Service
	clock *manualClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	clock := &manualClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := funding.NewService(sqlite.NewStore(db), clock, campaignDuration, nil)

	return &testEnv{db: db, svc: svc, clock: clock}
}

func newWallet(t *testing.T, env *testEnv, lamports uint64) identity.PublicKey {
	t.Helper()
	key, _, err := identity.Generate()
	require.NoError(t, err)
	if lamports > 0 {
		_, err = env.svc.Airdrop(context.Background(), key, lamports)
		require.NoError(t, err)
	}
	return key
}

func (env *testEnv) balance(t *testing.T, key identity.PublicKey) uint64 {
	t.Helper()
	balance, err := env.svc.Balance(context.Background(), addr.Wallet(key))
	require.NoError(t, err)
	return balance
}

// A failed campaign keeps the vault intact so every contributor can take
// their pledge back, and each pledge refunds exactly once.
func TestIntegration_FailedCampaignRefunds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creator := newWallet(t, env, 0)
	alice := newWallet(t, env, 1000)
	bob := newWallet(t, env, 1000)

	_, err := env.svc.InitializeCounter(ctx, creator)
	require.NoError(t, err)
	project, err := env.svc.InitializeProject(ctx, creator, "Community Garden", "Raised beds and tools", 5000)
	require.NoError(t, err)

	contribA, err := env.svc.Contribute(ctx, alice, project.Address, 2000, env.clock.Now().Unix())
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	contribB, err := env.svc.Contribute(ctx, bob, project.Address, 2000, env.clock.Now().Unix())
	require.NoError(t, err)

	vault, err := env.svc.Vault(ctx, project.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(4000), vault.TotalAmount)

	env.clock.Advance(campaignDuration)
	finalized, err := env.svc.FinalizeProject(ctx, creator, project.Address)
	require.NoError(t, err)
	require.Equal(t, funding.StatusFailed, finalized.Status)

	// Failure leaves the vault untouched until refunds drain it
	vault, err = env.svc.Vault(ctx, project.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(4000), vault.TotalAmount)

	refunded, err := env.svc.ClaimRefund(ctx, alice, project.Address, contribA.Address)
	require.NoError(t, err)
	require.True(t, refunded.Refunded)
	require.Equal(t, uint64(1000), env.balance(t, alice))

	_, err = env.svc.ClaimRefund(ctx, bob, project.Address, contribB.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), env.balance(t, bob))

	vault, err = env.svc.Vault(ctx, project.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(0), vault.TotalAmount)

	_, err = env.svc.ClaimRefund(ctx, alice, project.Address, contribA.Address)
	require.ErrorIs(t, err, funding.ErrAlreadyRefunded)
}

// A campaign that meets its goal sweeps the full vault balance to the
// creator, including the amount raised beyond the goal. Refunds are then
// permanently off the table.
func TestIntegration_SuccessfulCampaignSweep(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creator := newWallet(t, env, 0)
	alice := newWallet(t, env, 3000)
	bob := newWallet(t, env, 3000)

	_, err := env.svc.InitializeCounter(ctx, creator)
	require.NoError(t, err)
	project, err := env.svc.InitializeProject(ctx, creator, "Print Run", "", 2000)
	require.NoError(t, err)

	contribA, err := env.svc.Contribute(ctx, alice, project.Address, 1500, env.clock.Now().Unix())
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	_, err = env.svc.Contribute(ctx, bob, project.Address, 1000, env.clock.Now().Unix())
	require.NoError(t, err)

	env.clock.Advance(campaignDuration)
	finalized, err := env.svc.FinalizeProject(ctx, creator, project.Address)
	require.NoError(t, err)
	require.Equal(t, funding.StatusSucceeded, finalized.Status)

	require.Equal(t, uint64(2500), env.balance(t, creator))
	vault, err := env.svc.Vault(ctx, project.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(0), vault.TotalAmount)

	_, err = env.svc.ClaimRefund(ctx, alice, project.Address, contribA.Address)
	require.ErrorIs(t, err, funding.ErrProjectSucceeded)
}

func TestIntegration_ZeroContributionRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creator := newWallet(t, env, 0)
	alice := newWallet(t, env, 1000)

	_, err := env.svc.InitializeCounter(ctx, creator)
	require.NoError(t, err)
	project, err := env.svc.InitializeProject(ctx, creator, "Zine", "", 100)
	require.NoError(t, err)

	_, err = env.svc.Contribute(ctx, alice, project.Address, 0, env.clock.Now().Unix())
	require.ErrorIs(t, err, funding.ErrInvalidContributionAmount)

	contributions, err := env.svc.Contributions(ctx, project.Address)
	require.NoError(t, err)
	require.Empty(t, contributions)

	vault, err := env.svc.Vault(ctx, project.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(0), vault.TotalAmount)
	require.Equal(t, uint64(1000), env.balance(t, alice))
}

func TestIntegration_ContributeAfterFinalize(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creator := newWallet(t, env, 0)
	alice := newWallet(t, env, 1000)

	_, err := env.svc.InitializeCounter(ctx, creator)
	require.NoError(t, err)
	project, err := env.svc.InitializeProject(ctx, creator, "Short Film", "", 500)
	require.NoError(t, err)

	env.clock.Advance(campaignDuration)
	_, err = env.svc.FinalizeProject(ctx, creator, project.Address)
	require.NoError(t, err)

	_, err = env.svc.Contribute(ctx, alice, project.Address, 100, env.clock.Now().Unix())
	require.ErrorIs(t, err, funding.ErrProjectFinalized)

	vault, err := env.svc.Vault(ctx, project.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(0), vault.TotalAmount)
	require.Equal(t, uint64(1000), env.balance(t, alice))
}

func TestIntegration_TitleLengthBoundary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creator := newWallet(t, env, 0)
	_, err := env.svc.InitializeCounter(ctx, creator)
	require.NoError(t, err)

	tooLong := strings.Repeat("x", 101)
	_, err = env.svc.InitializeProject(ctx, creator, tooLong, "", 100)
	require.ErrorIs(t, err, funding.ErrTitleTooLong)

	exact := strings.Repeat("x", 100)
	project, err := env.svc.InitializeProject(ctx, creator, exact, "", 100)
	require.NoError(t, err)
	require.Equal(t, exact, project.Title)
}

// Project IDs come from the shared counter and must be handed out
// sequentially, even across different creators.
func TestIntegration_CounterSequencing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creatorA := newWallet(t, env, 0)
	creatorB := newWallet(t, env, 0)

	counter, err := env.svc.InitializeCounter(ctx, creatorA)
	require.NoError(t, err)
	require.Equal(t, uint64(0), counter.Count)

	first, err := env.svc.InitializeProject(ctx, creatorA, "First", "", 100)
	require.NoError(t, err)
	second, err := env.svc.InitializeProject(ctx, creatorB, "Second", "", 100)
	require.NoError(t, err)
	third, err := env.svc.InitializeProject(ctx, creatorA, "Third", "", 100)
	require.NoError(t, err)

	require.Equal(t, uint64(1), first.ProjectID)
	require.Equal(t, uint64(2), second.ProjectID)
	require.Equal(t, uint64(3), third.ProjectID)

	// Same creator, distinct IDs, distinct addresses
	require.NotEqual(t, first.Address, third.Address)

	counter, err = env.svc.Counter(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), counter.Count)
}

// The vault's running total and the balance of its custody account move in
// lockstep through contributions, refunds, and the final sweep.
func TestIntegration_VaultBalanceConsistency(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creator := newWallet(t, env, 0)
	alice := newWallet(t, env, 5000)

	_, err := env.svc.InitializeCounter(ctx, creator)
	require.NoError(t, err)
	project, err := env.svc.InitializeProject(ctx, creator, "Workshop", "", 10000)
	require.NoError(t, err)
	vaultAddr := addr.Vault(project.Address)

	checkConsistent := func(want uint64) {
		t.Helper()
		vault, err := env.svc.Vault(ctx, project.Address)
		require.NoError(t, err)
		require.Equal(t, want, vault.TotalAmount)
		balance, err := env.svc.Balance(ctx, vaultAddr)
		require.NoError(t, err)
		require.Equal(t, want, balance)
	}

	contrib, err := env.svc.Contribute(ctx, alice, project.Address, 1200, env.clock.Now().Unix())
	require.NoError(t, err)
	checkConsistent(1200)

	env.clock.Advance(time.Second)
	_, err = env.svc.Contribute(ctx, alice, project.Address, 800, env.clock.Now().Unix())
	require.NoError(t, err)
	checkConsistent(2000)

	env.clock.Advance(campaignDuration)
	_, err = env.svc.FinalizeProject(ctx, creator, project.Address)
	require.NoError(t, err)
	checkConsistent(2000)

	_, err = env.svc.ClaimRefund(ctx, alice, project.Address, contrib.Address)
	require.NoError(t, err)
	checkConsistent(800)
}

// Two pledges from the same contributor to the same project in the same
// second derive the same address; the second must be rejected whole.
func TestIntegration_TimestampCollision(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creator := newWallet(t, env, 0)
	alice := newWallet(t, env, 1000)

	_, err := env.svc.InitializeCounter(ctx, creator)
	require.NoError(t, err)
	project, err := env.svc.InitializeProject(ctx, creator, "Album", "", 5000)
	require.NoError(t, err)

	ts := env.clock.Now().Unix()
	_, err = env.svc.Contribute(ctx, alice, project.Address, 100, ts)
	require.NoError(t, err)
	_, err = env.svc.Contribute(ctx, alice, project.Address, 200, ts)
	require.ErrorIs(t, err, funding.ErrContributionExists)

	// Colliding call rolled back entirely
	require.Equal(t, uint64(900), env.balance(t, alice))
	vault, err := env.svc.Vault(ctx, project.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(100), vault.TotalAmount)

	// Retry with a fresh timestamp succeeds
	_, err = env.svc.Contribute(ctx, alice, project.Address, 200, ts+1)
	require.NoError(t, err)
	require.Equal(t, uint64(700), env.balance(t, alice))
}

// Every committed transition lands in the journal in newest-first order.
func TestIntegration_JournalTrail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	creator := newWallet(t, env, 0)
	alice := newWallet(t, env, 1000)

	// Advance between transitions so journal timestamps are distinct
	env.clock.Advance(time.Second)
	_, err := env.svc.InitializeCounter(ctx, creator)
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	project, err := env.svc.InitializeProject(ctx, creator, "Podcast", "", 400)
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	_, err = env.svc.Contribute(ctx, alice, project.Address, 500, env.clock.Now().Unix())
	require.NoError(t, err)
	env.clock.Advance(campaignDuration)
	_, err = env.svc.FinalizeProject(ctx, creator, project.Address)
	require.NoError(t, err)

	entries, err := env.svc.RecentJournal(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	ops := make([]string, 0, len(entries))
	for _, entry := range entries {
		ops = append(ops, entry.Operation)
	}
	require.Equal(t, []string{
		"finalize_project",
		"contribute",
		"initialize_project",
		"initialize_counter",
		"airdrop",
	}, ops)
}
