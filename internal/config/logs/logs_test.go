package logs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"trace", LevelTrace, false},
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"", LevelUnspecified, false},
		{"fatal", LevelUnspecified, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			level, err := LevelFromString(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidLogLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, level)
			assert.True(t, level.IsValid())
		})
	}
}

func TestFormatFromString(t *testing.T) {
	for input, expected := range map[string]Format{"json": FormatJSON, "text": FormatText, "txt": FormatText, "": FormatUnspecified} {
		format, err := FormatFromString(input)
		require.NoError(t, err)
		assert.Equal(t, expected, format)
	}
	_, err := FormatFromString("xml")
	assert.ErrorIs(t, err, ErrInvalidLogFormat)
}

func TestFromStrings(t *testing.T) {
	cfg, err := FromStrings("json", "debug", "stdout")
	require.NoError(t, err)
	assert.Equal(t, Config{Format: FormatJSON, Level: LevelDebug, Output: "stdout"}, cfg)

	_, err = FromStrings("xml", "loud", "")
	require.ErrorIs(t, err, ErrInvalidLogFormat)
	require.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	assert.Equal(t, Config{Format: FormatText, Level: LevelInfo, Output: DefaultOutput}, cfg)

	kept := Config{Format: FormatJSON, Level: LevelError, Output: "stdout"}.WithDefaults()
	assert.Equal(t, FormatJSON, kept.Format)
	assert.Equal(t, LevelError, kept.Level)
	assert.Equal(t, "stdout", kept.Output)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	valid := Config{Format: FormatText, Level: LevelTrace}
	require.NoError(t, valid.Validate())

	invalid := Config{Format: "xml", Level: "loud"}
	err := invalid.Validate()
	require.ErrorIs(t, err, ErrInvalidLogFormat)
	require.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestConfig_String(t *testing.T) {
	cfg := Config{Format: FormatJSON, Level: LevelInfo, Output: "stderr"}
	assert.Equal(t, "Log Config: format=json, level=info, output=stderr", cfg.String())
	assert.Contains(t, cfg.ToTree().Tree().String(), "Output: stderr")
}
