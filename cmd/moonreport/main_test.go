package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "moonreport 1.0-"))
}

func TestPhase(t *testing.T) {
	out, err := run(t, "phase", "--time", "2024-05-23T13:53:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Moon Phase for 2024-05-23T13:53:00Z")
	assert.Contains(t, out, "Full Moon (滿月)")
	assert.NotContains(t, out, "Altitude")

	out, err = run(t, "phase", "--time", "2024-05-23T13:53:00Z", "--lat", "25.033", "--lon", "121.5654")
	require.NoError(t, err)
	assert.Contains(t, out, "Altitude:")

	_, err = run(t, "phase", "--time", "tomorrow")
	assert.Error(t, err)
}

func TestRootWritesReport(t *testing.T) {
	for _, env := range []string{"LAT", "LON", "TZ", "MOONREPORT_HTML", "MOONREPORT_MARKDOWN", "MOONREPORT_METRICS",
		"MOONREPORT_EPHEMERIS", "MOONREPORT_TIME", "MOONREPORT_DEBUG", "MOONREPORT_CONFIG", "MOONREPORT_TEMPLATES"} {
		t.Setenv(env, "")
	}
	dir := t.TempDir()
	html := filepath.Join(dir, "index.html")
	md := filepath.Join(dir, "moon.md")

	_, err := run(t, "--html", html, "--markdown", md, "--time", "2024-05-23T12:00:00+08:00")
	require.NoError(t, err)

	page, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(page), "雙子座")

	doc, err := os.ReadFile(md)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "小滿")
}

func TestRootRejectsBadLatitude(t *testing.T) {
	t.Setenv("MOONREPORT_HTML", filepath.Join(t.TempDir(), "index.html"))
	_, err := run(t, "--lat", "123")
	assert.Error(t, err)
}

func TestRootReportsRunFailureOnce(t *testing.T) {
	for _, env := range []string{"LAT", "LON", "TZ", "MOONREPORT_MARKDOWN", "MOONREPORT_METRICS",
		"MOONREPORT_EPHEMERIS", "MOONREPORT_TIME", "MOONREPORT_CONFIG", "MOONREPORT_TEMPLATES"} {
		t.Setenv(env, "")
	}
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	t.Setenv("MOONREPORT_HTML", filepath.Join(blocker, "index.html"))

	out, err := run(t, "--time", "2024-05-23T12:00:00+08:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating report")
	assert.Empty(t, out, "the error is printed by main, not by the command")
}
