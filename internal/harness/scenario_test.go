package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a scenario next to a copy of the test menu.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()

	menu, err := os.ReadFile("testdata/menu.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menu.yaml"), menu, 0644))

	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Add one curry"
catalog: menu.yaml
steps:
  - action: add
    product: "7"
    quantity: 2
    choose:
      - { group: Spice Level, option: Mild }
assertions:
  - type: line_count
    count: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "menu.yaml"), scenario.Catalog)
	require.Len(t, scenario.Steps, 1)
	assert.Equal(t, StepAdd, scenario.Steps[0].Action)
	assert.Equal(t, 2, *scenario.Steps[0].Quantity)
	assert.Equal(t, []Choice{{Group: "Spice Level", Option: "Mild"}}, scenario.Steps[0].Choose)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, 1, *scenario.Assertions[0].Count)
}

func TestLoadScenario_Testdata(t *testing.T) {
	for _, name := range []string{"spice_level_merge", "order_flow"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled assertions key"
catalog: menu.yaml
steps:
  - action: clear
assertion:
  - type: line_count
    count: 0
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "x"
catalog: menu.yaml
steps: [{action: clear}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: x
catalog: menu.yaml
steps: [{action: clear}]
`,
			wantErr: "description is required",
		},
		{
			name: "missing catalog file",
			content: `
name: x
description: "x"
catalog: nope.yaml
steps: [{action: clear}]
`,
			wantErr: "catalog file not found",
		},
		{
			name: "empty steps",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps: []
`,
			wantErr: "steps list is required",
		},
		{
			name: "add without product",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps: [{action: add}]
`,
			wantErr: "steps[0]: add requires product",
		},
		{
			name: "set_quantity without quantity",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps: [{action: set_quantity, sku: "7"}]
`,
			wantErr: "set_quantity requires quantity",
		},
		{
			name: "drawer without visible",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps: [{action: drawer}]
`,
			wantErr: "drawer requires visible",
		},
		{
			name: "unknown action",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps: [{action: checkout}]
`,
			wantErr: `unknown action "checkout"`,
		},
		{
			name: "incomplete choice",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps:
  - action: add
    product: "7"
    choose: [{group: Spice Level}]
`,
			wantErr: "steps[0].choose[0]: group and option are required",
		},
		{
			name: "line_count without count",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps: [{action: clear}]
assertions: [{type: line_count}]
`,
			wantErr: "line_count requires count",
		},
		{
			name: "sku without equals",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps: [{action: clear}]
assertions: [{type: sku, product: "7"}]
`,
			wantErr: "sku requires product and equals",
		},
		{
			name: "unknown assertion",
			content: `
name: x
description: "x"
catalog: menu.yaml
steps: [{action: clear}]
assertions: [{type: trace_contains}]
`,
			wantErr: `unknown assertion type "trace_contains"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
