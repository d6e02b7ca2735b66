package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/two_records_filters.yaml")
	require.NoError(t, err)

	assert.Equal(t, "two_records_filters", scenario.Name)
	assert.Len(t, scenario.Setup, 2)
	require.Len(t, scenario.Flow, 4)
	assert.Equal(t, ActionToggle, scenario.Flow[0].Action)
	assert.Equal(t, map[string]any{"id": "t-1", "completed": true}, scenario.Flow[0].Args)
	require.NotNil(t, scenario.Flow[0].Expect)
	assert.Equal(t, "applied", scenario.Flow[0].Expect.Outcome)
	assert.Len(t, scenario.Assertions, 6)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: s\nflow:\n  - action: clear_completed\n"), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "s", scenario.Name)
	assert.Nil(t, scenario.Flow[0].Args)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown field",
			doc:  "name: s\nflow:\n  - action: clear_completed\nassertion: []\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			doc:  "flow:\n  - action: clear_completed\n",
			want: "name is required",
		},
		{
			name: "empty flow",
			doc:  "name: s\nflow: []\n",
			want: "flow must contain at least one step",
		},
		{
			name: "unknown action",
			doc:  "name: s\nflow:\n  - action: archive\n",
			want: `unknown action "archive"`,
		},
		{
			name: "missing arg",
			doc:  "name: s\nflow:\n  - action: add\n",
			want: `missing arg "title"`,
		},
		{
			name: "wrong arg kind",
			doc:  "name: s\nflow:\n  - action: toggle\n    args: { id: t-1, completed: \"yes\" }\n",
			want: `arg "completed" must be a bool`,
		},
		{
			name: "unknown arg",
			doc:  "name: s\nflow:\n  - action: remove\n    args: { id: t-1, force: true }\n",
			want: `unknown arg "force"`,
		},
		{
			name: "bad outcome",
			doc:  "name: s\nflow:\n  - action: clear_completed\n    expect: { outcome: done }\n",
			want: "expect.outcome must be applied or ignored",
		},
		{
			name: "outcome and error",
			doc:  "name: s\nflow:\n  - action: clear_completed\n    expect: { outcome: applied, error: boom }\n",
			want: "mutually exclusive",
		},
		{
			name: "bad setup step",
			doc:  "name: s\nsetup:\n  - action: nope\nflow:\n  - action: clear_completed\n",
			want: "setup[0]",
		},
		{
			name: "unknown assertion",
			doc:  "name: s\nflow:\n  - action: clear_completed\nassertions:\n  - type: final_state\n",
			want: `unknown assertion type "final_state"`,
		},
		{
			name: "projection without titles",
			doc:  "name: s\nflow:\n  - action: clear_completed\nassertions:\n  - type: projection\n",
			want: "titles is required",
		},
		{
			name: "projection with bad filter",
			doc:  "name: s\nflow:\n  - action: clear_completed\nassertions:\n  - type: projection\n    filter: done\n    titles: []\n",
			want: "invalid filter",
		},
		{
			name: "any_completed without value",
			doc:  "name: s\nflow:\n  - action: clear_completed\nassertions:\n  - type: any_completed\n",
			want: "value is required",
		},
		{
			name: "trace_count unknown action",
			doc:  "name: s\nflow:\n  - action: clear_completed\nassertions:\n  - type: trace_count\n    action: nope\n",
			want: `unknown action "nope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
