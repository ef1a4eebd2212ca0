package appfs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailLayoutsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(FS, "assets/templates/email")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"_base.gohtml", "_base.txt", "credentials.gohtml", "credentials.txt"}, names)
}

func TestMigrationsEmbedded(t *testing.T) {
	fps, err := fs.Glob(FS, "migrations/*.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, fps)
}
