package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"run"},
		{"plan"},
		{"serve"},
		{"candidates", "list"},
		{"candidates", "add"},
		{"candidates", "remove"},
		{"token", "set"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	f := runCmd.Flags().Lookup("dry-run")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)
}
