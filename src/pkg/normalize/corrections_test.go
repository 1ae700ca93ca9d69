package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectionTableKeepsOrder(t *testing.T) {
	// "ab" -> "x" runs first, so "abc" never reaches the second rule.
	table, e := NewCorrectionTable([]Correction{
		{Wrong: "ab", Right: "x"},
		{Wrong: "abc", Right: "y"},
	})
	require.Nil(t, e)
	assert.Equal(t, "xc", table.Apply("abc"))

	reversed, e := NewCorrectionTable([]Correction{
		{Wrong: "abc", Right: "y"},
		{Wrong: "ab", Right: "x"},
	})
	require.Nil(t, e)
	assert.Equal(t, "y", reversed.Apply("abc"))
}

func TestCorrectionTableRejectsEmptyWrong(t *testing.T) {
	_, e := NewCorrectionTable([]Correction{{Wrong: "", Right: "x"}})
	assert.NotNil(t, e)
}

func TestDefaultCorrectionTable(t *testing.T) {
	table := DefaultCorrectionTable()
	assert.Equal(t, len(DefaultCorrections()), table.Len())
	assert.Equal(t, DefaultCorrections(), table.Corrections())
	assert.Equal(t, "Improved Noise", table.Apply("Improoved Nowe"))
}

func TestLoadCorrectionsListForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.yaml")
	content := "- {wrong: multple, right: multiple}\n- {wrong: te, right: to, whole_word: true}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, e := LoadCorrections(path)
	require.Nil(t, e)
	assert.Equal(t, []Correction{
		{Wrong: "multple", Right: "multiple"},
		{Wrong: "te", Right: "to", WholeWord: true},
	}, table.Corrections())
	assert.Equal(t, "multiple items to go", table.Apply("multple items te go"))
}

func TestLoadCorrectionsMappingFormKeepsFileOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.yaml")
	content := "zeta: last\nalpha: first\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, e := LoadCorrections(path)
	require.Nil(t, e)
	assert.Equal(t, []Correction{
		{Wrong: "zeta", Right: "last"},
		{Wrong: "alpha", Right: "first"},
	}, table.Corrections())
}

func TestLoadCorrectionsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.json")
	content := `[{"wrong": "bettor", "right": "better"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, e := LoadCorrections(path)
	require.Nil(t, e)
	assert.Equal(t, "better", table.Apply("bettor"))
}

func TestLoadCorrectionsErrors(t *testing.T) {
	dir := t.TempDir()

	_, e := LoadCorrections(filepath.Join(dir, "missing.yaml"))
	assert.NotNil(t, e)

	scalar := filepath.Join(dir, "scalar.yaml")
	require.NoError(t, os.WriteFile(scalar, []byte("just a string\n"), 0o644))
	_, e = LoadCorrections(scalar)
	assert.NotNil(t, e)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("- {wrong: [\n"), 0o644))
	_, e = LoadCorrections(broken)
	assert.NotNil(t, e)
}

func TestConfigOptions(t *testing.T) {
	opts, e := Config{MinHeadingLength: 2, CorrectSpelling: true}.Options()
	require.Nil(t, e)
	assert.Equal(t, 2, opts.MinHeadingLength)
	assert.True(t, opts.CorrectSpelling)
	assert.Nil(t, opts.Corrections)

	path := filepath.Join(t.TempDir(), "corrections.yaml")
	require.NoError(t, os.WriteFile(path, []byte("foo: bar\n"), 0o644))
	opts, e = Config{CorrectionsPath: path}.Options()
	require.Nil(t, e)
	assert.Equal(t, "bar", FormatText("foo", opts))
}
