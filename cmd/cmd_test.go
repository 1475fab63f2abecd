package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TFMV/driftgraph/config"
	"github.com/TFMV/driftgraph/render"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	color.NoColor = true

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderSVGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.svg")

	out, err := execute(t, "render", "--ticks", "10", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)
	assert.Contains(t, out, "seed 1")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "<?xml"))
	assert.Equal(t, 20, strings.Count(string(data), "<circle cx"))
}

func TestRenderIsDeterministic(t *testing.T) {
	a, err := execute(t, "render", "--seed", "9", "--ticks", "50", "--format", "json")
	require.NoError(t, err)
	b, err := execute(t, "render", "--seed", "9", "--ticks", "50", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")

	_, err := execute(t, "render", "--width", "320", "--height", "200", "-o", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestRenderASCIIToStdout(t *testing.T) {
	out, err := execute(t, "render", "--format", "ascii", "--cols", "40", "--rows", "12")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 12)
	assert.Contains(t, out, "O")
}

func TestRenderRejectsBadInput(t *testing.T) {
	_, err := execute(t, "render", "--format", "gif")
	assert.ErrorIs(t, err, render.ErrUnsupportedFormat)

	_, err = execute(t, "render", "--ticks", "-1")
	assert.Error(t, err)

	_, err = execute(t, "render", "--mover", "orbit")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", "--seed", "3", "--nodes", "5", "--extra-edges", "0", "--edges")
	require.NoError(t, err)

	assert.Contains(t, out, "driftgraph — graph")
	assert.Contains(t, out, "nodes        5")
	assert.Contains(t, out, "edges        5")
	assert.Contains(t, out, "extra edges  0")
	assert.Contains(t, out, "connected    ✓")
	assert.Contains(t, out, "EDGE")
}

func TestConfigInitShowPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftgraph.toml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = execute(t, "--config", path, "config", "init")
	assert.Error(t, err, "init refuses to overwrite")

	_, err = execute(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[graph]")
	assert.Contains(t, out, `tick_period = "16ms"`)

	out, err = execute(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigFileFeedsCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftgraph.toml")
	require.NoError(t, os.WriteFile(path, []byte("[graph]\nnodes = 4\nextra_edges = 0\nseed = 2\n"), 0o644))

	out, err := execute(t, "--config", path, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes        4")

	out, err = execute(t, "--config", path, "graph", "--nodes", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes        6", "flags override the file")
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "graph")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "png", formatFromPath("a/b.PNG"))
	assert.Equal(t, "ascii", formatFromPath("out.txt"))
	assert.Equal(t, "json", formatFromPath("f.json"))
	assert.Equal(t, "svg", formatFromPath(""))
}
