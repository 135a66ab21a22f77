package stylesdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/stylesheet/internal/styles"
)

func writeTokens(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSourceYAML(t *testing.T) {
	path := writeTokens(t, "tokens.yaml", `
text:
  base: "#000000"
  muted_1: "#333333"
background:
  base: "#FFFFFF"
  opacity: 0.5
hover_background:
  action_primary: rgb(10, 20, 30)
notes: "not a category"
border:
  nested:
    deep: "#fff"
  base: "#E3E4E6"
`)

	mapping, err := NewFileSource(path).GetStyles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []styles.Category{
		{Key: "text", Tokens: []styles.Token{
			{Name: "base", Value: "#000000"},
			{Name: "muted_1", Value: "#333333"},
		}},
		{Key: "background", Tokens: []styles.Token{
			{Name: "base", Value: "#FFFFFF"},
			{Name: "opacity", Value: "0.5"},
		}},
		{Key: "hover_background", Tokens: []styles.Token{
			{Name: "action_primary", Value: "rgb(10, 20, 30)"},
		}},
		{Key: "border", Tokens: []styles.Token{
			{Name: "base", Value: "#E3E4E6"},
		}},
	}, mapping.Categories)
}

func TestFileSourceJSON(t *testing.T) {
	path := writeTokens(t, "tokens.json", `{"background": {"base": "#FFFFFF"}, "text": {"base": "#000000"}}`)

	mapping, err := NewFileSource(path).GetStyles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ":root {\n  --background-base: #FFFFFF;\n  --text-base: #000000;\n}\n\n"+
		".bg-base {\n  background-color: var(--background-base);\n}\n\n"+
		".c-base {\n  color: var(--text-base);\n}\n", styles.Render(mapping))
}

func TestFileSourceReadsEveryCall(t *testing.T) {
	path := writeTokens(t, "tokens.yaml", "text:\n  base: \"#000\"\n")
	source := NewFileSource(path)

	first, err := source.GetStyles(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("text:\n  base: \"#111\"\n"), 0o600))
	second, err := source.GetStyles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "#000", first.Categories[0].Tokens[0].Value)
	assert.Equal(t, "#111", second.Categories[0].Tokens[0].Value)
}

func TestFileSourceEmptyAndScalarDocuments(t *testing.T) {
	empty, err := NewFileSource(writeTokens(t, "empty.yaml", "")).GetStyles(context.Background())
	require.NoError(t, err)
	assert.Nil(t, empty)

	scalar, err := NewFileSource(writeTokens(t, "scalar.yaml", "just a string\n")).GetStyles(context.Background())
	require.NoError(t, err)
	assert.True(t, scalar.IsEmpty())
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).GetStyles(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewFileSource(writeTokens(t, "bad.yaml", "text: [unclosed\n")).GetStyles(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource(writeTokens(t, "ok.yaml", "text: {}\n")).GetStyles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSourceKeepsScalarText(t *testing.T) {
	path := writeTokens(t, "tokens.yaml", `
misc:
  alpha: 1.50
  scale: 1.50e2
  count: 010
  on: true
  none: ~
`)

	mapping, err := NewFileSource(path).GetStyles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []styles.Token{
		{Name: "alpha", Value: "1.50"},
		{Name: "scale", Value: "1.50e2"},
		{Name: "count", Value: "010"},
		{Name: "on", Value: "true"},
		{Name: "none", Value: "null"},
	}, mapping.Categories[0].Tokens)
}

func TestFileSourceAgreesWithJSONOnDuplicates(t *testing.T) {
	doc := `{"background": {"base": "#fff", "muted": "#eee", "base": "#000"}, "text": {"base": "#111"}, "text": {"base": "#222"}}`

	fromFile, err := NewFileSource(writeTokens(t, "dup.json", doc)).GetStyles(context.Background())
	require.NoError(t, err)
	fromJSON, err := styles.ParseMapping([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromFile)
	assert.Equal(t, []styles.Category{
		{Key: "background", Tokens: []styles.Token{{Name: "base", Value: "#000"}, {Name: "muted", Value: "#eee"}}},
		{Key: "text", Tokens: []styles.Token{{Name: "base", Value: "#222"}}},
	}, fromFile.Categories)
}

func TestFileSourceResolvesAliases(t *testing.T) {
	path := writeTokens(t, "tokens.yaml", `
background:
  base: &white "#FFFFFF"
text:
  inverse: *white
`)

	mapping, err := NewFileSource(path).GetStyles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", mapping.Categories[1].Tokens[0].Value)
}
