package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")

	out := buf.String()
	assert.Contains(t, out, "navigation bridge 1.2.3")
	assert.Contains(t, out, `|_| |_|\__,_|`)
	assert.NotContains(t, out, "\x1b[", "a buffer is not a color terminal")
}

func TestNewRenderer_PlainWhenNotTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "report.md"))
	require.NoError(t, err)
	defer f.Close()

	render := NewRenderer(f)
	out, err := render("# Title\n\n- item\n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\n- item\n", out)
}
