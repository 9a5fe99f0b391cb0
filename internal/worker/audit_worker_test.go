package worker

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/amqp"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

func TestHandleLedgerEvent(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	logger := log.New(log.Config{Level: slog.LevelError, Component: log.ComponentWorker})
	w := NewAuditWorker(repo, logger)

	ev := amqp.NewLedgerEvent(amqp.EntityTransaction, "t1", amqp.ActionCreated, "user-1")
	require.NoError(t, w.HandleLedgerEvent(ev))

	entries, err := repo.RecentAuditEntries(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "transaction", entries[0].Entity)
	assert.Equal(t, "t1", entries[0].EntityID)
	assert.Equal(t, "created", entries[0].Action)
}
