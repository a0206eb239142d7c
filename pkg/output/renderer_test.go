package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/arthur-debert/dsfixtures/pkg/output"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleDatasets() []types.Dataset {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	return []types.Dataset{
		{Name: "dataset-a", Persistent: true, CreatedAt: created},
		{Name: "dataset-b", Persistent: false, CreatedAt: created.Add(time.Minute)},
	}
}

func TestRenderDatasets_Text(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, output.FormatText)

	require.NoError(t, r.RenderDatasets(sampleDatasets()))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "PERSISTENT")
	assert.Contains(t, out, "dataset-a")
	assert.Contains(t, out, "dataset-b")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
	assert.NotContains(t, out, "\x1b[", "text output must not contain escape codes")
}

func TestRenderDatasets_Terminal(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, output.FormatTerminal)

	require.NoError(t, r.RenderDatasets(sampleDatasets()))

	out := buf.String()
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "dataset-a")
}

func TestRenderDatasets_Empty(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, output.NewRenderer(&buf, output.FormatText).RenderDatasets(nil))
		assert.Equal(t, "No datasets\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, output.NewRenderer(&buf, output.FormatJSON).RenderDatasets(nil))
		assert.Equal(t, "[]\n", buf.String())
	})
}

func TestRenderDatasets_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, output.FormatJSON)

	require.NoError(t, r.RenderDatasets(sampleDatasets()))

	var got []types.Dataset
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleDatasets(), got)
	assert.Contains(t, buf.String(), `"created_at"`)
}

func TestRenderDatasets_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, output.FormatYAML)

	require.NoError(t, r.RenderDatasets(sampleDatasets()))

	assert.Contains(t, buf.String(), "name: dataset-a")
	assert.Contains(t, buf.String(), "persistent: true")

	var got []types.Dataset
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "dataset-b", got[1].Name)
	assert.False(t, got[1].Persistent)
}

func TestRenderSummary(t *testing.T) {
	type info struct {
		Platform string `json:"platform" yaml:"platform"`
		Skipped  bool   `json:"skipped" yaml:"skipped"`
	}
	v := info{Platform: "Linux", Skipped: false}
	pairs := []output.Pair{{Key: "platform", Value: "Linux"}, {Key: "skipped", Value: "no"}}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, output.NewRenderer(&buf, output.FormatText).RenderSummary(v, pairs...))
		assert.Equal(t, "platform: Linux\nskipped:  no\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, output.NewRenderer(&buf, output.FormatJSON).RenderSummary(v, pairs...))
		assert.JSONEq(t, `{"platform":"Linux","skipped":false}`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, output.NewRenderer(&buf, output.FormatYAML).RenderSummary(v, pairs...))
		assert.YAMLEq(t, "platform: Linux\nskipped: false\n", buf.String())
	})
}

func TestRenderMessageAndError(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, output.FormatText)

	require.NoError(t, r.RenderMessage("Removed 2 datasets"))
	require.NoError(t, r.RenderError(errors.New("boom")))

	assert.Equal(t, "Removed 2 datasets\nError: boom\n", buf.String())

	buf.Reset()
	r = output.NewRenderer(&buf, output.FormatJSON)
	require.NoError(t, r.RenderError(errors.New("boom")))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
	assert.Equal(t, output.FormatJSON, r.Format())
}
