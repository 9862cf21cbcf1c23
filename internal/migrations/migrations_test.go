package migrations

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestLoadEmbedded(t *testing.T) {
	migrations, err := Load()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "0001", migrations[0].Version)
	assert.Equal(t, "0001_initial_schema", migrations[0].Name)
	assert.Contains(t, migrations[0].Up, "CREATE TABLE IF NOT EXISTS shopping_carts")
	assert.Contains(t, migrations[0].Rollback, "DROP TABLE IF EXISTS users")
	assert.Equal(t, "0002", migrations[1].Version)
}

func TestLoadRejectsBadNames(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
	}{
		{"no version", fstest.MapFS{"m/initial.sql": {Data: []byte("SELECT 1")}}},
		{"orphan rollback", fstest.MapFS{"m/0001_x_rollback.sql": {Data: []byte("SELECT 1")}}},
		{"duplicate version", fstest.MapFS{
			"m/0001_a.sql": {Data: []byte("SELECT 1")},
			"m/0001_b.sql": {Data: []byte("SELECT 1")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.files, "m")
			assert.Error(t, err)
		})
	}
}

func TestLoadIgnoresOtherFiles(t *testing.T) {
	migrations, err := load(fstest.MapFS{
		"m/0002_b.sql":          {Data: []byte("SELECT 2")},
		"m/0001_a.sql":          {Data: []byte("SELECT 1")},
		"m/README.md":           {Data: []byte("docs")},
		"m/0001_a_rollback.sql": {Data: []byte("SELECT 0")},
	}, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "0001_a", migrations[0].Name)
	assert.Equal(t, "SELECT 0", migrations[0].Rollback)
	assert.Empty(t, migrations[1].Rollback)
}

func TestMigratorPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db, err := sql.Open("postgres", testhelpers.StartPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	migrations, err := Load()
	require.NoError(t, err)
	migrator := NewMigrator(db, migrations)

	applied, err := migrator.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_initial_schema", "0002_default_tags"}, applied)

	applied, err = migrator.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	var tags int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&tags))
	assert.Equal(t, 3, tags)

	name, err := migrator.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002_default_tags", name)
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&tags))
	assert.Zero(t, tags)

	_, err = migrator.Rollback(ctx)
	require.NoError(t, err)
	_, err = migrator.Rollback(ctx)
	assert.ErrorIs(t, err, ErrNothingToRollback)
}
