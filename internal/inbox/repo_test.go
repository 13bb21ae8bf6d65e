package inbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
)

func setupInboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS inbox_entries (
  id TEXT PRIMARY KEY,
  proposal_id TEXT NOT NULL UNIQUE,
  viewed INTEGER NOT NULL DEFAULT 0,
  overdue INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedEntry(t *testing.T, db *gorm.DB) *models.InboxEntry {
	t.Helper()

	entry := &models.InboxEntry{
		ID:         uuid.New(),
		ProposalID: uuid.New(),
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestRepositoryMarkViewed(t *testing.T) {
	db := setupInboxTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	entry := seedEntry(t, db)

	require.NoError(t, repo.MarkViewed(ctx, entry.ProposalID))

	found, err := repo.FindByProposalID(ctx, entry.ProposalID)
	require.NoError(t, err)
	assert.True(t, found.Viewed)

	err = repo.MarkViewed(ctx, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryDeleteByProposalID(t *testing.T) {
	db := setupInboxTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	entry := seedEntry(t, db)

	require.NoError(t, repo.DeleteByProposalID(ctx, entry.ProposalID))

	_, err := repo.FindByProposalID(ctx, entry.ProposalID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositorySetOverdueByProposalIDs(t *testing.T) {
	db := setupInboxTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := seedEntry(t, db)
	second := seedEntry(t, db)
	third := seedEntry(t, db)

	stamped, err := repo.SetOverdueByProposalIDs(ctx, []uuid.UUID{first.ProposalID, second.ProposalID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stamped)

	// idempotent: already-stamped rows are skipped
	stamped, err = repo.SetOverdueByProposalIDs(ctx, []uuid.UUID{first.ProposalID, second.ProposalID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), stamped)

	found, err := repo.FindByProposalID(ctx, third.ProposalID)
	require.NoError(t, err)
	assert.False(t, found.Overdue)

	stamped, err = repo.SetOverdueByProposalIDs(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stamped)
}
