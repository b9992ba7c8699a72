package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	cfg := writeFile(t, "agent.jsonc", `{
		// lazy skills and one exclusion
		"agents": {"defaults": {
			"skills": {"lazyLoading": true},
			"tools": {"exclude": ["Browser"]},
		}},
	}`)
	catalog := writeFile(t, "skills.yaml", `
- name: weather
  description: Get weather forecasts
  content: "`+string(bytes.Repeat([]byte("step "), 400))+`"
- name: github
  description: Manage GitHub issues
  content: Use gh.
`)

	out, err := runCLI(t, "inspect",
		"--config", cfg,
		"--catalog", catalog,
		"--tools", "read,exec,browser",
		"--exclude-tool", "bash",
		"--reserve", "1000",
		"--log-file", filepath.Join(t.TempDir(), "inspect.log"),
	)
	require.NoError(t, err)

	require.Contains(t, out, "context window 200,000 tokens")
	require.Contains(t, out, "Compaction reserve:  40,000 tokens (raised from 1,000)")
	require.Contains(t, out, "Lazy skills:         enabled (2 skills, snapshot v1)")
	require.Contains(t, out, "**weather**: Get weather forecasts")
	require.Contains(t, out, "Tools offered (2):  read, load_skill")
	require.Contains(t, out, "Tools excluded (2): exec, browser")
	require.Contains(t, out, "Token-efficient tools: on (token-efficient-tools-2025-02-19)")
}

func TestInspect_NoToolsNoBeta(t *testing.T) {
	out, err := runCLI(t, "inspect", "--reserve", "90000", "--context-window", "100000")
	require.NoError(t, err)

	require.Contains(t, out, "context window 100,000 tokens")
	require.Contains(t, out, "Compaction reserve:  90,000 tokens (unchanged)")
	require.Contains(t, out, "Lazy skills:         disabled (0 skills, snapshot v1)")
	require.Contains(t, out, "Tools offered (0):  none")
	require.Contains(t, out, "Token-efficient tools: off")
}

func TestInspect_Errors(t *testing.T) {
	_, err := runCLI(t, "inspect", "--log-format", "xml")
	require.Error(t, err)

	_, err = runCLI(t, "inspect", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = runCLI(t, "inspect", "--catalog", writeFile(t, "bad.yaml", "- description: no name\n"))
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := newLogger(&buf, "", "json", true)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())
	require.Contains(t, buf.String(), `"msg":"hello"`)
}
