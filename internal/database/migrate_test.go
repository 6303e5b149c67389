package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/portal":   "pgx5://u:p@localhost:5432/portal",
		"postgresql://u:p@localhost:5432/portal": "pgx5://u:p@localhost:5432/portal",
		"pgx5://u:p@localhost:5432/portal":       "pgx5://u:p@localhost:5432/portal",
	}
	for in, want := range cases {
		assert.Equal(t, want, MigrateURL(in))
	}
}

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
