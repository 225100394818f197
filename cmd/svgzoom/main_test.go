package main

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgzoom/svgdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFile = "../../svgdoc/testdata/graph.svg"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", testFile)
	require.NoError(t, err)
	assert.Contains(t, out, "width:     200pt (200)")
	assert.Contains(t, out, "layer:     graph0")
	assert.Contains(t, out, "transform: scale(1 1) rotate(0) translate(4 96)")
	assert.Contains(t, out, "matrix:    1 0 0 1 4 96")
}

func TestApply(t *testing.T) {
	out, err := run(t, "apply", testFile, "pan:10,-5", "zoom:2")
	require.NoError(t, err)
	assert.Contains(t, out, `<svg width="400pt" height="200pt" viewBox="0.00 0.00 400 200"`)
	assert.Contains(t, out, `transform="matrix(2 0 0 2 -80 140)"`)

	_, err = run(t, "apply", testFile, "spin:3")
	assert.Error(t, err)
}

func TestPrepare(t *testing.T) {
	output := filepath.Join(t.TempDir(), "prepared.svg")
	_, err := run(t, "prepare", testFile, "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `data-svgzoom-width="200pt"`)
	assert.Contains(t, content, `transform="matrix(1 0 0 1 0 100)"`)
	assert.NotContains(t, content, ` width="200pt"`)

	// a prepared document keeps its nominal size
	out, err := run(t, "apply", output, "zoom:2")
	require.NoError(t, err)
	assert.Contains(t, out, `width="400pt"`)
}

func TestLayerOptions(t *testing.T) {
	_, err := run(t, "inspect", testFile, "--layer", "node9")
	require.NoError(t, err) // falls back to the first group

	config := filepath.Join(t.TempDir(), "svgzoom.yaml")
	require.NoError(t, os.WriteFile(config, []byte("errorMode: strict\n"), 0o644))
	_, err = run(t, "inspect", testFile, "--layer", "node9", "--config", config)
	assert.ErrorIs(t, err, svgdoc.ErrLayerNotFound)

	_, err = run(t, "inspect", testFile, "--log-level", "verbose")
	assert.Error(t, err)
}

func TestMinimap(t *testing.T) {
	output := filepath.Join(t.TempDir(), "overview.png")
	_, err := run(t, "minimap", testFile, "zoom:2", "-o", output, "--size", "64")
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	_, err = run(t, "minimap", testFile)
	assert.True(t, err != nil && strings.Contains(err.Error(), "-o"))
}

func TestServeMissingFile(t *testing.T) {
	_, err := run(t, "serve", filepath.Join(t.TempDir(), "missing.svg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
