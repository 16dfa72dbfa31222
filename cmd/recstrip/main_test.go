package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const models = "export const MODELS = {\n" +
	"  gpt: {\n" +
	"    label: 'GPT',\n" +
	"    recommended: true,\n" +
	"    context: 128000\n" +
	"  },\n" +
	"};\n"

const modelsStripped = "export const MODELS = {\n" +
	"  gpt: {\n" +
	"    label: 'GPT',\n" +
	"    context: 128000\n" +
	"  }\n" +
	"};\n"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"RECSTRIP_TARGET", "RECSTRIP_FIELD", "RECSTRIP_VALUES", "RECSTRIP_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRootCmd_DefaultTarget(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "src", "lib", "models.ts")
	writeFile(t, target, models)
	t.Chdir(dir)

	output, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, "✅ Stripped all 'recommended' flags from models.ts\n", output)
	assert.Equal(t, modelsStripped, readFile(t, target))
}

func TestRootCmd_ExplicitPath(t *testing.T) {
	clearEnv(t)
	target := filepath.Join(t.TempDir(), "catalog.ts")
	writeFile(t, target, models)

	output, err := execute(t, target)
	require.NoError(t, err)
	assert.Contains(t, output, "from catalog.ts")
	assert.Equal(t, modelsStripped, readFile(t, target))
}

func TestRootCmd_DryRun(t *testing.T) {
	clearEnv(t)
	target := filepath.Join(t.TempDir(), "models.ts")
	writeFile(t, target, models)

	output, err := execute(t, "--dry-run", "--no-color", target)
	require.NoError(t, err)
	assert.Contains(t, output, "-    recommended: true,\n")
	assert.Contains(t, output, "Dry run: 1 'recommended' line(s) would be stripped from models.ts")
	assert.Equal(t, models, readFile(t, target), "dry run must not write")
}

func TestRootCmd_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "flags.ts")
	writeFile(t, target, "{\n  beta: on,\n  recommended: true,\n  x: 1\n}\n")

	cfgPath := filepath.Join(dir, "recstrip.yaml")
	writeFile(t, cfgPath, "target: "+target+"\nfield: beta\nvalues: [\"on\"]\n")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "✅ Stripped all 'beta' flags from flags.ts\n", out.String())
	assert.Equal(t, "{\n  recommended: true,\n  x: 1\n}\n", readFile(t, target))
}

func TestRootCmd_MissingTarget(t *testing.T) {
	clearEnv(t)
	target := filepath.Join(t.TempDir(), "missing.ts")

	output, err := execute(t, target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.ts")
	assert.False(t, strings.Contains(output, "✅"))
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECSTRIP_LOG_LEVEL", "shouty")

	_, err := execute(t, filepath.Join(t.TempDir(), "models.ts"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "a.ts", "b.ts")
	assert.Error(t, err)
}
