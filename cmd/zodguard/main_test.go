package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zodguard/internal/logging"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func resetFlags(t *testing.T) {
	t.Helper()
	flagStdin, flagClipboard = false, false
	flagConfig = "relaxed"
	flagConfigFile = ""
	flagCleanOnly, flagJSON, flagGetUnifiedLargest, flagUnwrapArrays = false, false, false, false
	flagWatch, flagHistory, flagInteractive = false, false, false
	flagHistoryLimit = 20
	flagHistoryPath = filepath.Join(t.TempDir(), "history.db")
	logger = logging.NewNop()
}

func TestResolveSourceRejectsNoInput(t *testing.T) {
	resetFlags(t)
	cmd := newTestCmd()
	_, _, err := resolveSource(cmd, nil)
	assert.Error(t, err, "expected an error when no input source is selected")
}

func TestResolveSourceRejectsMultipleInputs(t *testing.T) {
	resetFlags(t)
	flagStdin = true
	cmd := newTestCmd()
	_, _, err := resolveSource(cmd, []string{"file.ts"})
	assert.Error(t, err, "expected an error when a file argument and --stdin are both given")
}

func TestResolveSourceReadsFile(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.ts")
	require.NoError(t, os.WriteFile(path, []byte("const x = z.string();"), 0o644))

	cmd := newTestCmd()
	source, label, err := resolveSource(cmd, []string{path})
	require.NoError(t, err)
	assert.Equal(t, path, label)
	assert.Equal(t, "const x = z.string();", string(source))
}

func TestResolveSourceReadsStdin(t *testing.T) {
	resetFlags(t)
	flagStdin = true
	cmd := newTestCmd()
	cmd.SetIn(bytes.NewBufferString("const x = z.string();"))
	source, label, err := resolveSource(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", label)
	assert.Equal(t, "const x = z.string();", string(source))
}

func TestResolveConfigUnknownPreset(t *testing.T) {
	resetFlags(t)
	flagConfig = "not-a-real-preset"
	_, err := resolveConfig()
	assert.Error(t, err, "expected an error for an unknown preset name")
}

func TestResolveConfigAppliesUnwrapArrays(t *testing.T) {
	resetFlags(t)
	flagConfig = "relaxed"
	flagUnwrapArrays = true
	cfg, err := resolveConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Features.UnwrapArrayRoot, "expected --unwrapArrays to set features.unwrap_array_root")
}

func TestValidSchemaValidatesAndPrints(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.ts")
	source := "import { z } from \"zod\";\nconst userSchema = z.object({ name: z.string() });\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	cmd := newTestCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	cfg, err := resolveConfig()
	require.NoError(t, err)
	result, elapsed := validate(cmd.Context(), []byte(source), cfg)
	require.True(t, result.IsValid, "expected a well-formed schema to validate: %+v", result.Issues)
	recordHistory(cmd.Context(), []byte(source), result, elapsed)
	require.NoError(t, printResult(cmd, result))
	assert.NotZero(t, out.Len(), "expected printResult to write something")
}

func TestPrintResultCleanOnly(t *testing.T) {
	resetFlags(t)
	flagCleanOnly = true
	cmd := newTestCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	cfg, err := resolveConfig()
	require.NoError(t, err)
	source := "import { z } from \"zod\";\nconst userSchema = z.string();\n"
	result, _ := validate(cmd.Context(), []byte(source), cfg)
	require.NoError(t, printResult(cmd, result))
	assert.Equal(t, result.CleanedCode+"\n", out.String(), "expected --clean-only output to be exactly the cleaned code")
}

func TestHistoryRoundTrip(t *testing.T) {
	resetFlags(t)
	cmd := newTestCmd()

	cfg, err := resolveConfig()
	require.NoError(t, err)
	source := "import { z } from \"zod\";\nconst userSchema = z.string();\n"
	result, elapsed := validate(cmd.Context(), []byte(source), cfg)
	recordHistory(cmd.Context(), []byte(source), result, elapsed)

	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, runHistory(cmd))
	assert.NotZero(t, out.Len(), "expected runHistory to print the recorded run")
}
