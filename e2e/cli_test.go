//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	out, err := cliCommand(t.TempDir(), "--help").CombinedOutput()
	require.NoError(t, err, "Help command should run without error")

	output := string(out)
	assert.Contains(t, output, "Usage")
	assert.Contains(t, output, "--department")
	assert.Contains(t, output, "open")
	assert.Contains(t, output, "export")
}

func TestExportWritesCatalog(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()
	src := filepath.Join(workspace, "catalog.csv")
	require.NoError(t, os.WriteFile(src, []byte(catalogCSV), 0644))
	dst := filepath.Join(workspace, "out.csv")

	out, err := cliCommand(workspace, "export", "--catalog", src, "--department", "csci", "-o", dst).CombinedOutput()
	require.NoError(t, err, string(out))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, strings.TrimSpace(catalogHeader), lines[0])
	assert.Len(t, lines, 4, "header plus one row per CSCI period")
	assert.NotContains(t, string(data), "MATH")
}

func TestOpenRejectsBadPermalink(t *testing.T) {
	t.Parallel()

	out, err := cliCommand(t.TempDir(), "open", "yacs://selection?id=abc").CombinedOutput()
	require.Error(t, err)
	assert.Contains(t, string(out), "invalid permalink")
}

func TestConfigInit(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()
	path := filepath.Join(workspace, "yacs.toml")

	out, err := cliCommand(workspace, "config", "init", "--config", path).CombinedOutput()
	require.NoError(t, err, string(out))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[cache]")
	assert.Contains(t, string(data), "default_department")

	_, err = cliCommand(workspace, "config", "init", "--config", path).CombinedOutput()
	assert.Error(t, err, "init must not overwrite")
}
