package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTestCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// copyScenarios copies testdata into a temp dir so golden files can be
// written without touching the checked-in ones. Returns the scenarios dir.
func copyScenarios(t *testing.T, withGolden bool) string {
	t.Helper()
	root := t.TempDir()
	scenariosDir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(filepath.Join(scenariosDir, "golden"), 0755))

	copyFile := func(src, dst string) {
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(dst, data, 0644))
	}
	copyFile(filepath.Join("testdata", "menu.yaml"), filepath.Join(root, "menu.yaml"))
	for _, name := range []string{"order_flow.yaml", "combo_quantity.yaml"} {
		copyFile(filepath.Join("testdata", "scenarios", name), filepath.Join(scenariosDir, name))
	}
	if withGolden {
		copyFile(
			filepath.Join("testdata", "scenarios", "golden", "order_flow.golden"),
			filepath.Join(scenariosDir, "golden", "order_flow.golden"),
		)
	}
	return scenariosDir
}

func TestTestCommand_MissingArgs(t *testing.T) {
	_, err := runTestCommand(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_NonExistentDir(t *testing.T) {
	_, err := runTestCommand(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	out, err := runTestCommand(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommand_EmptyDirJSON(t *testing.T) {
	out, err := runTestCommand(t, "json", t.TempDir())
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(0), data["total"])
	assert.Equal(t, []any{}, data["scenarios"])
}

func TestTestCommand_Testdata(t *testing.T) {
	out, err := runTestCommand(t, "text", filepath.Join("testdata", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ order_flow")
	assert.Contains(t, out, "✓ combo_quantity")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_JSON(t *testing.T) {
	out, err := runTestCommand(t, "json", filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2), data["passed"])
	assert.Equal(t, float64(0), data["failed"])
}

func TestTestCommand_Filter(t *testing.T) {
	out, err := runTestCommand(t, "text", filepath.Join("testdata", "scenarios"), "--filter", "combo_*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ combo_quantity")
	assert.NotContains(t, out, "order_flow")
	assert.Contains(t, out, "1 total")
}

func TestTestCommand_InvalidFilter(t *testing.T) {
	_, err := runTestCommand(t, "text", filepath.Join("testdata", "scenarios"), "--filter", "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestTestCommand_Update(t *testing.T) {
	scenariosDir := copyScenarios(t, false)

	out, err := runTestCommand(t, "text", scenariosDir, "--update")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ order_flow (golden updated)")
	assert.Contains(t, out, "✓ combo_quantity (golden updated)")

	written, err := os.ReadFile(filepath.Join(scenariosDir, "golden", "order_flow.golden"))
	require.NoError(t, err)
	checkedIn, err := os.ReadFile(filepath.Join("testdata", "scenarios", "golden", "order_flow.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(checkedIn), string(written))

	assert.FileExists(t, filepath.Join(scenariosDir, "golden", "combo_quantity.golden"))

	out, err = runTestCommand(t, "text", scenariosDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 passed")
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	scenariosDir := copyScenarios(t, true)
	goldenPath := filepath.Join(scenariosDir, "golden", "order_flow.golden")
	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"scenario_name":"order_flow","trace":[]}`), 0644))

	out, err := runTestCommand(t, "text", scenariosDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ order_flow")
	assert.Contains(t, out, "trace does not match golden file")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_FailingAssertionJSON(t *testing.T) {
	scenariosDir := copyScenarios(t, false)
	require.NoError(t, os.WriteFile(filepath.Join(scenariosDir, "wrong_count.yaml"), []byte(`name: wrong_count
description: Expects two lines after a single add.
catalog: ../menu.yaml
steps:
  - action: add
    product: "30"
assertions:
  - type: line_count
    count: 2
`), 0644))

	out, err := runTestCommand(t, "json", scenariosDir, "--filter", "wrong_*")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, "1 scenario(s) failed", resp.Error.Message)

	scenarios := resp.Data.(map[string]any)["scenarios"].([]any)
	require.Len(t, scenarios, 1)
	result := scenarios[0].(map[string]any)
	assert.Equal(t, "wrong_count", result["name"])
	assert.Equal(t, false, result["pass"])
	assert.NotEmpty(t, result["errors"])
}

func TestTestCommand_BrokenScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [unterminated"), 0644))

	out, err := runTestCommand(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "order_flow.golden"),
		goldenFilePath("scenarios", "order_flow"))
}
