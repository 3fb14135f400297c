package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// cliEnv points the CLI at a fresh database and the test menu.
type cliEnv struct {
	t       *testing.T
	dbPath  string
	catalog string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{
		t:       t,
		dbPath:  filepath.Join(t.TempDir(), "menucart.db"),
		catalog: filepath.Join("testdata", "menu.yaml"),
	}
}

// run executes the root command with the environment's database and
// catalog flags prepended.
func (e *cliEnv) run(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	return runCLI(append([]string{"--db", e.dbPath, "--catalog", e.catalog, "--log-level", "disabled"}, args...)...)
}

// runJSON executes a command with --format json and decodes the response.
func (e *cliEnv) runJSON(args ...string) (CLIResponse, error) {
	e.t.Helper()
	stdout, _, err := e.run(append([]string{"--format", "json"}, args...)...)

	var resp CLIResponse
	require.NoError(e.t, json.Unmarshal([]byte(stdout), &resp), "stdout: %s", stdout)
	return resp, err
}

// newSession creates a session and returns its id.
func (e *cliEnv) newSession() string {
	e.t.Helper()
	resp, err := e.runJSON("session", "new")
	require.NoError(e.t, err)
	data, ok := resp.Data.(map[string]any)
	require.True(e.t, ok)
	id, ok := data["session"].(string)
	require.True(e.t, ok)
	return id
}

func runCLI(args ...string) (stdout, stderr string, err error) {
	outBuf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}
