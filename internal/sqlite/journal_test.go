package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/crowdvault/internal/domain/funding"
)

func TestJournalRepository_AppendAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second).UTC()
	for i := 0; i < 3; i++ {
		entry := &funding.JournalEntry{
			ID:        uuid.NewString(),
			Operation: "contribute",
			Signer:    "backer1",
			Details:   "amount=100",
			AppliedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Append(ctx, entry))
	}

	// Newest first, bounded by limit
	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].AppliedAt.After(entries[1].AppliedAt))

	entries, err = repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "contribute", entries[0].Operation)
	require.Equal(t, "backer1", entries[0].Signer)
	require.Equal(t, "amount=100", entries[0].Details)
}

func TestJournalRepository_List_Empty(t *testing.T) {
	db := NewTestDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	entries, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}
