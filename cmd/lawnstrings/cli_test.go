package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lawnstrings"
)

// execute runs the CLI in-process from dir and returns its standard output.
func execute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
	})

	require.NoError(t, rootCmd.Execute(), errOut.String())
	return out.String()
}

func TestCLI_Version(t *testing.T) {
	out := execute(t, t.TempDir(), "version")
	assert.Equal(t, "lawnstrings version "+strings.TrimSpace(lawnstrings.Version)+"\n", out)
}

func TestCLI_ConvertGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "res", "en"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "res", "a.txt"), []byte("[A]\n1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "res", "en", "b.txt"), []byte("[B]\n2\n"), 0644))

	out := execute(t, dir, "convert", "--from", "plain", "--to", "json-list", "res/**/*.txt")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		filepath.Join("res", "a_converted.json"),
		filepath.Join("res", "en", "b_converted.json"),
	}, lines)
	assert.FileExists(t, filepath.Join(dir, "res", "en", "b_converted.json"))
}

func TestCLI_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "[output]\ndir = \"out\"\n\n[remote]\ntransform = \"zlib\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lawnstrings.toml"), []byte(content), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s.txt"), []byte("[k10]\nx\n[k9]\ny\n"), 0644))

	out := execute(t, dir, "sort", "--format", "plain", "s.txt")
	assert.Equal(t, filepath.Join("out", "s_sorted.txt")+"\n", out)

	var state lawnstrings.EngineState
	require.NoError(t, json.Unmarshal([]byte(execute(t, dir, "status")), &state))
	assert.Equal(t, "zlib", state.Transform)
	assert.Equal(t, "out", state.OutputDir)
}

func TestCLI_ConfigInit(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, dir, "config", "init")
	assert.Equal(t, "lawnstrings.toml\n", out)
	assert.FileExists(t, filepath.Join(dir, "lawnstrings.toml"))

	shown := execute(t, dir, "config", "show")
	assert.Contains(t, shown, "[remote.servers.release]")
}

func TestCLI_Manifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pvz2_l.txt"), []byte("hello"), 0644))

	out := execute(t, dir, "manifest", "pvz2_l.txt")
	assert.Contains(t, out, `"Hash": "5d41402abc4b2a76b9719d911017c592"`)
}
