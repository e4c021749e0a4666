package repositoryimpl

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskdigest/internal/subscription/repositoryimpl/migrations"
)

func openMemory(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func countRows(t *testing.T, repo *SQLRepository, table string) int {
	t.Helper()
	var n int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "mysql", "x")
	assert.Error(t, err)

	_, err = Open(ctx, "sqlite", " ")
	assert.Error(t, err)

	t.Run("migrations run once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taskdigest.db")
		repo, err := Open(ctx, "sqlite", path)
		require.NoError(t, err)
		require.NoError(t, repo.Subscribe(ctx, "a@example.com", 3))
		require.NoError(t, repo.Close())

		repo, err = Open(ctx, "sqlite", path)
		require.NoError(t, err)
		defer repo.Close()
		assert.Equal(t, 1, countRows(t, repo, migrationTable))
		ids, err := repo.ListCategoryIDs(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, []int64{3}, ids)
	})
}

func TestSQLRepository_Subscribe(t *testing.T) {
	ctx := context.Background()
	repo := openMemory(t)

	require.NoError(t, repo.Subscribe(ctx, "a@example.com", 3))
	require.NoError(t, repo.Subscribe(ctx, "a@example.com", 3))
	assert.Equal(t, 1, countRows(t, repo, "user_category_subscriptions"))
	assert.Equal(t, 1, countRows(t, repo, "users"))

	require.NoError(t, repo.Subscribe(ctx, "a@example.com", 7))
	require.NoError(t, repo.Subscribe(ctx, "b@example.com", 3))

	ids, err := repo.ListCategoryIDs(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, ids)

	ids, err = repo.ListCategoryIDs(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSQLRepository_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	repo := openMemory(t)

	assert.NoError(t, repo.Unsubscribe(ctx, "ghost@example.com", 1), "unknown user")

	require.NoError(t, repo.Subscribe(ctx, "a@example.com", 3))
	assert.NoError(t, repo.Unsubscribe(ctx, "a@example.com", 4), "unknown pair")
	assert.Equal(t, 1, countRows(t, repo, "user_category_subscriptions"))

	require.NoError(t, repo.Unsubscribe(ctx, "a@example.com", 3))
	ids, err := repo.ListCategoryIDs(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRebind(t *testing.T) {
	q := "SELECT 1 FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, q, sqliteDialect.rebind(q))
	assert.Equal(t, "SELECT 1 FROM t WHERE a = $1 AND b = $2", postgresDialect.rebind(q))
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, d := range []dialect{sqliteDialect, postgresDialect} {
		t.Run(d.driver, func(t *testing.T) {
			content, err := migrations.FS.ReadFile(d.migrationDir + "/0001_subscriptions.sql")
			require.NoError(t, err)
			up := extractUpMigration(string(content))
			assert.Contains(t, up, "user_category_subscriptions")
			assert.NotContains(t, up, "DROP TABLE")
		})
	}
}
