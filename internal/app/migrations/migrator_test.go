package migrations

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "010", Version("sql/010_add_index.sql"))
}

func TestPendingSortsAndFilters(t *testing.T) {
	files := fstest.MapFS{
		"002_second.sql": {Data: []byte("SELECT 2;")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("notes")},
		"nested/003.sql": {Data: []byte("SELECT 3;")},
	}

	m := NewMigrator(nil, files)
	pending, err := m.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first.sql", "002_second.sql"}, pending)
}

func TestEmbeddedSchema(t *testing.T) {
	content, err := fs.ReadFile(Files(), "001_init.sql")
	require.NoError(t, err)

	schema := string(content)
	for _, constraint := range []string{
		"registrations_event_user_key",
		"teams_event_owner_key",
		"team_invites_pending_key",
		"scores_submission_round_judge_key",
	} {
		assert.True(t, strings.Contains(schema, constraint), constraint)
	}
	assert.Contains(t, schema, "WHERE status = 'PENDING'")
}
