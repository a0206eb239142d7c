package output_test

import (
	"os"
	"testing"

	"github.com/arthur-debert/dsfixtures/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected output.Format
		wantErr  bool
	}{
		{input: "", expected: output.FormatAuto},
		{input: "auto", expected: output.FormatAuto},
		{input: "table", expected: output.FormatTerminal},
		{input: "terminal", expected: output.FormatTerminal},
		{input: "text", expected: output.FormatText},
		{input: "PLAIN", expected: output.FormatText},
		{input: "json", expected: output.FormatJSON},
		{input: " yaml ", expected: output.FormatYAML},
		{input: "yml", expected: output.FormatYAML},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := output.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "xml")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatString(t *testing.T) {
	for _, name := range output.FormatNames {
		f, err := output.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	assert.Equal(t, "unknown", output.Format(999).String())
}

func TestFormatMachine(t *testing.T) {
	assert.True(t, output.FormatJSON.Machine())
	assert.True(t, output.FormatYAML.Machine())
	assert.False(t, output.FormatText.Machine())
	assert.False(t, output.FormatTerminal.Machine())
	assert.False(t, output.FormatAuto.Machine())
}

func TestDetectFormat(t *testing.T) {
	t.Run("NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, output.FormatText, output.DetectFormat(os.Stdout))
	})

	t.Run("regular file is not a terminal", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "out")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		assert.Equal(t, output.FormatText, output.DetectFormat(f))
		assert.Equal(t, output.FormatText, output.FormatAuto.Resolve(f))
		assert.Equal(t, output.FormatJSON, output.FormatJSON.Resolve(f))
	})
}
