package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"login-method", "apply"},
		{"login-method", "read"},
		{"login-method", "list"},
		{"login-method", "delete"},
		{"lm", "apply"},
		{"oauth2-client", "list"},
	} {
		found, _, err := lcadminCmd.Find(path)
		require.NoError(t, err, "%v", path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestRootRejectsMissingConfig(t *testing.T) {
	var out bytes.Buffer
	lcadminCmd.SetOut(&out)
	lcadminCmd.SetErr(&out)
	lcadminCmd.SetArgs([]string{"oauth2-client", "list", "--config", filepath.Join(t.TempDir(), "missing.hcl")})
	defer lcadminCmd.SetArgs(nil)

	err := lcadminCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
