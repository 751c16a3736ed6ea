package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_FlagsRegistered(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"hover", "format", "out", "width", "height", "y-min", "y-max"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag --%s not registered", name)
	}
	assert.Equal(t, "svg", cmd.Flags().Lookup("format").DefValue)
}

func TestRender_SVGToStdout(t *testing.T) {
	out, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
}

func TestRender_HoverToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")

	_, _, err := execute(t, "--hover", "26", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Aslakson")
	assert.Contains(t, string(data), "Radar")
}

func TestRender_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")

	_, _, err := execute(t, "--format", "png", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"--format", "gif"}, "unsupported format"},
		{"unknown hover", []string{"--hover", "999"}, "no measurement with sequence 999"},
		{"bad size", []string{"--width", "0"}, "chart size must be positive"},
		{"positional args", []string{"extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
