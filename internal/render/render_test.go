package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/testutil"
	"github.com/roach88/todos/internal/view"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

var (
	buyMilk = task.Task{ID: "t-1", Title: "Buy milk", CreatedAt: testutil.DefaultEpochMillis}
	walkDog = task.Task{ID: "t-2", Title: "Walk dog", CreatedAt: testutil.DefaultEpochMillis + 1000}
)

func project(t *testing.T, filter task.Filter, tasks ...task.Task) view.Projection {
	t.Helper()
	p, err := view.Project(tasks, filter)
	require.NoError(t, err)
	return p
}

func done(t task.Task) task.Task {
	t.Completed = true
	return t
}

func TestListRenderer_TextGolden(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewListRenderer(buf, FormatText)

	require.NoError(t, r.Render(project(t, task.FilterAll, walkDog, done(buyMilk))))

	newGoldie(t).Assert(t, "list_text_two_records", buf.Bytes())
}

func TestListRenderer_TextEmptyGolden(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewListRenderer(buf, FormatText)

	require.NoError(t, r.Render(project(t, task.FilterActive)))

	newGoldie(t).Assert(t, "list_text_empty", buf.Bytes())
}

func TestListRenderer_JSONGolden(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewListRenderer(buf, FormatJSON)

	require.NoError(t, r.Render(project(t, task.FilterAll, walkDog, done(buyMilk))))

	newGoldie(t).Assert(t, "list_json_two_records", buf.Bytes())
}

func TestListRenderer_JSONDecodes(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewListRenderer(buf, FormatJSON)
	require.NoError(t, r.Render(project(t, task.FilterActive, walkDog, done(buyMilk))))

	var resp struct {
		Status string          `json:"status"`
		Data   view.Projection `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, task.FilterActive, resp.Data.Filter)
	assert.Equal(t, []task.Task{walkDog}, resp.Data.Items)
}

func TestDiffRenderer_SessionGolden(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewDiffRenderer(buf, FormatText)

	steps := []view.Projection{
		project(t, task.FilterAll),
		project(t, task.FilterAll, buyMilk),
		project(t, task.FilterAll, walkDog, buyMilk),
		project(t, task.FilterAll, walkDog, done(buyMilk)),
		project(t, task.FilterActive, walkDog, done(buyMilk)),
		project(t, task.FilterActive, walkDog, done(buyMilk)),
		project(t, task.FilterAll, walkDog, done(buyMilk)),
	}
	for _, p := range steps {
		require.NoError(t, r.Render(p))
		assert.Equal(t, p.Items, r.Shown())
	}

	newGoldie(t).Assert(t, "diff_text_session", buf.Bytes())
}

func TestDiffRenderer_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewDiffRenderer(buf, FormatJSON)

	require.NoError(t, r.Render(project(t, task.FilterAll, buyMilk)))
	require.NoError(t, r.Render(project(t, task.FilterAll, buyMilk)))

	dec := json.NewDecoder(buf)
	var first, second struct {
		Data Update `json:"data"`
	}
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	require.Len(t, first.Data.Changes, 1)
	assert.Equal(t, view.ChangeInsert, first.Data.Changes[0].Kind)
	assert.Equal(t, "t-1", first.Data.Changes[0].ID)
	assert.Equal(t, 1, first.Data.Remaining)

	assert.NotNil(t, second.Data.Changes)
	assert.Empty(t, second.Data.Changes)
}

func TestEscapeTitle(t *testing.T) {
	assert.Equal(t, `two\nlines`, EscapeTitle("two\nlines"))
	assert.Equal(t, `tab\there`, EscapeTitle("tab\there"))
	assert.Equal(t, `back\\slash`, EscapeTitle(`back\slash`))
	assert.Equal(t, "plain", EscapeTitle("plain"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "t-1", ShortID("t-1"))
	assert.Equal(t, "0b6c7a1e", ShortID("0b6c7a1e-4c2d-4f8e-9a1b-7c3d2e1f0a9b"))
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "0 items left", Footer(view.Projection{}))
	assert.Equal(t, "1 item left", Footer(view.Projection{Remaining: 1}))
	assert.Equal(t, "2 items left; completed tasks can be cleared",
		Footer(view.Projection{Remaining: 2, AnyCompleted: true}))
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("text"))
	assert.True(t, ValidFormat("json"))
	assert.False(t, ValidFormat("yaml"))
	assert.False(t, ValidFormat(""))
}
