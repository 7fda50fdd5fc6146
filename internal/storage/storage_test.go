package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/config"
	"github.com/Totarae/ResearchAggregator/internal/model"
	"github.com/Totarae/ResearchAggregator/internal/storage"
)

func newRun(id, user string, created time.Time) *model.Run {
	return &model.Run{
		ID:         id,
		UserID:     user,
		Request:    model.ResearchRequest{City: "Tokyo", FromCurrency: "USD", ToCurrency: "JPY", Amount: "100"},
		Response:   json.RawMessage(`{"exchange":{"error":"timeout"}}`),
		Succeeded:  2,
		Failed:     1,
		Policy:     "best-effort",
		DurationMS: 812,
		Created:    created,
	}
}

// testRunStore проверяет общий контракт всех реализаций журнала.
func testRunStore(t *testing.T, s storage.RunStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Ping(ctx))

	require.NoError(t, s.SaveRun(ctx, newRun("5b1c9c7e-0000-4000-8000-000000000001", "alice", base)))
	require.NoError(t, s.SaveRun(ctx, newRun("5b1c9c7e-0000-4000-8000-000000000002", "alice", base.Add(time.Minute))))
	require.NoError(t, s.SaveRun(ctx, newRun("5b1c9c7e-0000-4000-8000-000000000003", "bob", base)))
	require.NoError(t, s.SaveRun(ctx, newRun("5b1c9c7e-0000-4000-8000-000000000004", "", base)))

	got, err := s.GetRun(ctx, "5b1c9c7e-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, model.Amount("100"), got.Request.Amount)
	assert.JSONEq(t, `{"exchange":{"error":"timeout"}}`, string(got.Response))
	assert.True(t, base.Equal(got.Created))
	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, int64(812), got.DurationMS)

	_, err = s.GetRun(ctx, "5b1c9c7e-0000-4000-8000-0000000000ff")
	assert.ErrorIs(t, err, model.ErrRunNotFound)

	runs, err := s.ListRunsByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "5b1c9c7e-0000-4000-8000-000000000002", runs[0].ID)

	runs, err = s.ListRunsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, runs)

	st, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Runs: 4, Users: 2}, st)
}

func TestFileStore_Memory(t *testing.T) {
	s, err := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, err)
	testRunStore(t, s)
}

func TestFileStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	s, err := storage.NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	testRunStore(t, s)
}

// Тест загрузки журнала из файла при старте
func TestFileStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	ctx := context.Background()

	first, err := storage.NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.SaveRun(ctx, newRun("r1", "alice", time.Now().UTC())))

	second, err := storage.NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	got, err := second.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", got.Request.City)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken\n"), 0o644))

	_, err := storage.NewFileStore(path, zap.NewNop())
	assert.ErrorContains(t, err, "decode run journal")
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, err)

	run := newRun("r1", "alice", time.Now())
	require.NoError(t, s.SaveRun(ctx, run))
	run.UserID = "mallory"

	got, err := s.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
}

func TestSQLiteStore(t *testing.T) {
	s, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "data", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	testRunStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := storage.Open(ctx, &config.Config{Mode: config.ModeMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, s)

	s, err = storage.Open(ctx, &config.Config{Mode: config.ModeSQLite, SQLitePath: filepath.Join(t.TempDir(), "runs.db")}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = storage.Open(ctx, &config.Config{Mode: "tape"}, zap.NewNop())
	assert.EqualError(t, err, `unknown storage mode "tape"`)
}

func TestOpen_Database(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}
	s, err := storage.Open(context.Background(), &config.Config{Mode: config.ModeDatabase, DatabaseDSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	testRunStore(t, s)
}
