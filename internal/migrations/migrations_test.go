package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ContainsOrderedUpMigrations(t *testing.T) {
	names, err := fs.Glob(FS, "*.up.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"001_users.up.sql",
		"002_tours.up.sql",
		"003_reviews.up.sql",
		"004_bookings.up.sql",
		"005_tours_search_stemming.up.sql",
	}, names)
}

func TestFS_ReviewsCascadeWithTour(t *testing.T) {
	content, err := fs.ReadFile(FS, "003_reviews.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "REFERENCES tours (id) ON DELETE CASCADE")
}

func TestFS_SearchIndexesStemmedAndExactForms(t *testing.T) {
	content, err := fs.ReadFile(FS, "005_tours_search_stemming.up.sql")
	require.NoError(t, err)
	sql := string(content)
	for _, field := range []string{"title", "city", "description"} {
		assert.Contains(t, sql, "to_tsvector('simple', coalesce("+field+", ''))")
		assert.Contains(t, sql, "to_tsvector('english', coalesce("+field+", ''))")
	}
}
