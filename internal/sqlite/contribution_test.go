package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/identity"
	"github.com/rpggio/crowdvault/internal/repository"
)

func testContribution(t *testing.T, project addr.Address, amount uint64, timestamp int64) *funding.Contribution {
	t.Helper()

	contributor, _, err := identity.Generate()
	require.NoError(t, err)

	return &funding.Contribution{
		Address:     addr.Contribution(contributor, project, uint64(timestamp)),
		Contributor: contributor,
		Project:     project,
		Amount:      amount,
		Timestamp:   timestamp,
	}
}

func TestContributionRepository_Create(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	proj := createTestProject(t, db, 1)
	contribution := testContribution(t, proj.Address, 500, 1695000000)

	err := repo.Create(ctx, contribution)
	require.NoError(t, err)

	retrieved, err := repo.Get(ctx, contribution.Address)
	require.NoError(t, err)
	require.Equal(t, contribution.Address, retrieved.Address)
	require.Equal(t, contribution.Contributor, retrieved.Contributor)
	require.Equal(t, proj.Address, retrieved.Project)
	require.Equal(t, uint64(500), retrieved.Amount)
	require.Equal(t, int64(1695000000), retrieved.Timestamp)
	require.False(t, retrieved.Refunded)

	// Same contributor, project and timestamp collide
	err = repo.Create(ctx, contribution)
	require.Equal(t, repository.ErrAlreadyExists, err)
}

func TestContributionRepository_Get_NotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	proj := createTestProject(t, db, 1)
	_, err := repo.Get(ctx, testContribution(t, proj.Address, 1, 1).Address)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestContributionRepository_ListByProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	proj := createTestProject(t, db, 1)
	other := createTestProject(t, db, 2)

	second := testContribution(t, proj.Address, 200, 1695000200)
	first := testContribution(t, proj.Address, 100, 1695000100)
	elsewhere := testContribution(t, other.Address, 300, 1695000300)
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, elsewhere))

	// Arrival order, scoped to the project
	contributions, err := repo.ListByProject(ctx, proj.Address)
	require.NoError(t, err)
	require.Len(t, contributions, 2)
	require.Equal(t, first.Address, contributions[0].Address)
	require.Equal(t, second.Address, contributions[1].Address)
}

func TestContributionRepository_MarkRefunded(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	proj := createTestProject(t, db, 1)
	contribution := testContribution(t, proj.Address, 500, 1695000000)
	require.NoError(t, repo.Create(ctx, contribution))

	err := repo.MarkRefunded(ctx, contribution.Address)
	require.NoError(t, err)

	retrieved, err := repo.Get(ctx, contribution.Address)
	require.NoError(t, err)
	require.True(t, retrieved.Refunded)

	// Unknown contribution
	err = repo.MarkRefunded(ctx, testContribution(t, proj.Address, 1, 9).Address)
	require.Equal(t, repository.ErrNotFound, err)
}
