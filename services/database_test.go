package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lac-hong-legacy/mooc_api/model"
	"github.com/lac-hong-legacy/mooc_api/services/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "mooc.db?_busy_timeout=5000", sqliteDSN("mooc.db"))
	assert.Equal(t, "file:mooc.db?cache=shared&_busy_timeout=5000", sqliteDSN("file:mooc.db?cache=shared"))
	assert.Equal(t, "mooc.db?_busy_timeout=100", sqliteDSN("mooc.db?_busy_timeout=100"))
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := OpenDatabase("mysql", "dsn")
	assert.Error(t, err)
}

// A file database opened the way DatabaseService does must serialize
// concurrent updates of one session without surfacing lock errors.
func TestOpenDatabase_SqliteFileConcurrentUpdates(t *testing.T) {
	db, err := OpenDatabase(SessionStoreSqlite, filepath.Join(t.TempDir(), "mooc.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := repositories.NewSessionRepository(db)
	require.NoError(t, repo.Migrate())
	ctx := context.Background()

	var (
		mu     sync.Mutex
		failed int
	)
	for round := 0; round < 20; round++ {
		id := "s" + moduleLabel(round)
		require.NoError(t, repo.Create(ctx, model.NewSession(id, "Alice", time.Now())))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Update(ctx, id, func(s *model.Session) error {
					s.MarkQuizCompleted(time.Now())
					return s.CompleteModule(1, time.Now())
				})
				if err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					t.Logf("update %s: %v", id, err)
				}
			}()
		}
		wg.Wait()

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, got.CompletedModules)
		assert.True(t, got.QuizCompleted)
	}

	assert.Zero(t, failed)
}
