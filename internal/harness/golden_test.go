package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Deterministic(t *testing.T) {
	s := &Scenario{Name: "det", Flow: []Step{add("Buy milk"), add("Walk dog")}}

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := Snapshot(s.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestSnapshot_Format(t *testing.T) {
	result, err := Run(&Scenario{Name: "fmt", Flow: []Step{add("a & b")}})
	require.NoError(t, err)

	data, err := Snapshot("fmt", result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `{"scenario":"fmt"}`, lines[0])
	assert.Equal(t, `{"seq":1,"type":"invoke","action":"add","args":{"title":"a & b"}}`, lines[1])
}

func TestAssertGolden_BuyMilk(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/buy_milk.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, scenario.Name, result))
}
