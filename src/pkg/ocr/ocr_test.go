package ocr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigString(t *testing.T) {
	tests := []struct {
		options string
		want    EngineConfig
	}{
		{"", DefaultEngineConfig()},
		{"--oem 3 --psm 6", EngineConfig{PageSegMode: PSMBlock, EngineMode: OEMDefault, Languages: []string{"eng"}}},
		{"--psm 7", EngineConfig{PageSegMode: PSMSingleLine, EngineMode: OEMDefault, Languages: []string{"eng"}}},
		{"--psm sparse -l eng+spa", EngineConfig{PageSegMode: PSMSparseText, EngineMode: OEMDefault, Languages: []string{"eng", "spa"}}},
		{"--oem 1 -c preserve_interword_spaces=1", EngineConfig{
			PageSegMode: PSMBlock, EngineMode: OEMLSTM, Languages: []string{"eng"},
			Variables: map[string]string{"preserve_interword_spaces": "1"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.options, func(t *testing.T) {
			got, err := ParseConfigString(tt.options)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConfigStringErrors(t *testing.T) {
	for _, options := range []string{"--psm", "--psm 99", "--oem 7", "--dpi 300", "-c novalue", "--psm banana"} {
		t.Run(options, func(t *testing.T) {
			_, err := ParseConfigString(options)
			assert.Error(t, err)
		})
	}
}

func TestEngineConfigStringRoundTrips(t *testing.T) {
	cfg := EngineConfig{PageSegMode: PSMSparseText, EngineMode: OEMLSTM, Languages: []string{"eng", "fra"}}
	assert.Equal(t, "--oem 1 --psm 11 -l eng+fra", cfg.String())

	parsed, err := ParseConfigString(cfg.String())
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}

func TestParsePageSegMode(t *testing.T) {
	for name, want := range map[string]PageSegMode{"block": PSMBlock, "LINE": PSMSingleLine, " sparse ": PSMSparseText, "3": PSMAuto} {
		got, err := ParsePageSegMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestMeanConfidenceSkipsUnscoredTokens(t *testing.T) {
	mean, ok := MeanConfidence([]Token{
		{Text: "hello", Confidence: 90},
		{Text: "", Confidence: NoConfidence},
		{Text: "world", Confidence: 70},
	})
	assert.True(t, ok)
	assert.InDelta(t, 80.0, mean, 1e-9)

	mean, ok = MeanConfidence([]Token{{Confidence: NoConfidence}})
	assert.False(t, ok)
	assert.Equal(t, NoConfidence, mean)

	_, ok = MeanConfidence(nil)
	assert.False(t, ok)
}

func TestEngineFailureUnwraps(t *testing.T) {
	cause := errors.New("tessdata missing")
	err := error(&EngineFailure{Engine: "tesseract", Op: "recognize", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "tesseract engine failure")
}

func TestConfigEngineConfig(t *testing.T) {
	cfg, err := DefaultValueConfig().EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultEngineConfig(), cfg)
}
