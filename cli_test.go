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

	"comrade/bot"
	"comrade/config"
)

// runApp runs the CLI against a temporary config directory.
func runApp(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"comrade", "--config-dir", dir}, args...))
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "comrade "+config.Version)
	assert.Contains(t, out, "Popular This Week")
}

func TestSourcesCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, dir, "sources")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "1. nhentai.to Mirror (mirror, gallery only)", lines[0])
	assert.Equal(t, "   https://nhentai.to/g/177013/", lines[1])
	assert.Contains(t, lines[4], "Google Translate Proxy (translate_proxy, gallery + search)")

	assert.FileExists(t, filepath.Join(dir, "config.json"))
}

func TestSourcesCommandReadsSourcesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sources.json"),
		[]byte(`{"sources":[{"name":"Only","base_url":"https://nh.example","kind":"direct"}]}`), 0644))

	out, err := runApp(t, dir, "sources")
	require.NoError(t, err)
	assert.Equal(t, "1. Only (direct, gallery + search)\n   https://nh.example/g/177013/\n", out)
}

func TestGalleryCommandRejectsBadID(t *testing.T) {
	_, err := runApp(t, t.TempDir(), "gallery", "abc")
	assert.Error(t, err)
}

func TestSearchCommandRejectsBadSort(t *testing.T) {
	_, err := runApp(t, t.TempDir(), "search", "--sort", "sideways", "touhou")
	assert.Error(t, err)
}

func TestCFImportRequiresSource(t *testing.T) {
	_, err := runApp(t, t.TempDir(), "cf", "import")
	assert.ErrorContains(t, err, "--file or --clipboard")
}

func TestCFImportFromFile(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(export, []byte(`{
		"domain": "www.nhentai.net",
		"url": "https://nhentai.net/",
		"allCookies": [{"name": "cf_clearance", "value": "abc", "domain": ".nhentai.net", "path": "/", "expirationDate": 4102444800}]
	}`), 0644))

	out, err := runApp(t, dir, "cf", "import", "--file", export)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported bypass data for nhentai.net")

	out, err = runApp(t, dir, "cf", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "nhentai.net: valid")

	_, err = runApp(t, dir, "cf", "delete", "nhentai.net")
	require.NoError(t, err)
	out, err = runApp(t, dir, "cf", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "nhentai.net")
}

func TestLogsCommandPrintsLastLines(t *testing.T) {
	dir := t.TempDir()
	_, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "comrade.log"), []byte("one\ntwo\nthree\n"), 0644))

	out, err := runApp(t, dir, "logs", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "two\nthree\n")
	assert.NotContains(t, out, "one\n")
}

func TestConsoleResponder(t *testing.T) {
	var out bytes.Buffer
	r := &consoleResponder{w: &out}

	err := r.Send(context.Background(), console, bot.Message{
		Embed: &bot.Embed{
			Title:    "R.E.I.N.A",
			URL:      "https://nhentai.net/g/185217/",
			ImageURL: "https://blobs.example/x.jpg",
			Footer:   "Page 1 of 28 | R.E.I.N.A (185217)",
			Spoiler:  true,
		},
		Buttons: []bot.Button{{Label: "Previous Page", Disabled: true}, {Label: "Next Page"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "== R.E.I.N.A ==\n"+
		"https://nhentai.net/g/185217/\n"+
		"image (spoiler): https://blobs.example/x.jpg\n"+
		"-- Page 1 of 28 | R.E.I.N.A (185217) --\n"+
		"[Next Page]\n", out.String())

	out.Reset()
	require.NoError(t, r.Send(context.Background(), console, bot.Message{
		Content:     "Select a gallery to view (Page 1 / 2)",
		Placeholder: "Select a gallery from page 1",
		Options:     []bot.SelectOption{{Label: "1. R.E.I.N.A", Description: "(185217) (C91) [HitenKei (Hiten)]", Value: "185217"}},
	}))
	assert.Contains(t, out.String(), "  1. R.E.I.N.A\n      (185217) (C91) [HitenKei (Hiten)]\n")
}
