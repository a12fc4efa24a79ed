package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/internal/storage"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	out := bytes.NewBuffer(nil)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writePacks(t *testing.T, path string, packs []catalog.Pack) {
	data, err := json.Marshal(packs)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	before := filepath.Join(dir, "before.json")
	after := filepath.Join(dir, "after.json")

	romanceDawn := catalog.NewPack("569101", "BOOSTER PACK -ROMANCE DAWN- [OP-01]")
	paramountWar := catalog.NewPack("569102", "BOOSTER PACK -Paramount War- [OP-02]")
	writePacks(t, before, []catalog.Pack{romanceDawn})
	writePacks(t, after, []catalog.Pack{romanceDawn, paramountWar})

	out, err := execute(t, "diff", "--packs", before, after)
	require.NoError(t, err)

	var diff []catalog.Pack
	require.NoError(t, json.Unmarshal([]byte(out), &diff))
	require.Equal(t, []catalog.Pack{paramountWar}, diff)

	diffPacks = false
	_, err = execute(t, "diff", before, after)
	require.ErrorContains(t, err, "missing arguments")
}

func TestConfigInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vega")

	out, err := execute(t, "-c", dir, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, "installed "+filepath.Join(dir, localizer.LANGUAGE_ENGLISH.File()))

	out, err = execute(t, "-c", dir, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, "already installed")

	out, err = execute(t, "-c", dir, "config")
	require.NoError(t, err)
	require.Contains(t, out, localizer.LANGUAGE_FRENCH.File())
}

func TestPullPacks(t *testing.T) {
	page, err := os.ReadFile("../../../internal/scrapers/optcg/testdata/packs.html")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}))
	defer server.Close()

	dir := t.TempDir()
	_, err = localizer.InstallDefaults(dir, true)
	require.NoError(t, err)

	localePath := filepath.Join(dir, localizer.LANGUAGE_ENGLISH.File())
	definition, err := os.ReadFile(localePath)
	require.NoError(t, err)
	definition = []byte(strings.Replace(
		string(definition),
		`hostname = "https://en.onepiece-cardgame.com"`,
		`hostname = "`+server.URL+`"`,
		1,
	))
	require.NoError(t, os.WriteFile(localePath, definition, 0644))

	output := filepath.Join(t.TempDir(), "data")
	out, err := execute(t, "-c", dir, "pull", "-l", "en", "packs", "-o", output)
	require.NoError(t, err)
	require.Contains(t, out, "3 packs written")

	store := storage.NewDataStore(output, localizer.LANGUAGE_ENGLISH)
	packs, err := storage.LoadPacks(store.PacksPath())
	require.NoError(t, err)
	require.Len(t, packs, 3)

	meta, err := store.LoadMeta()
	require.NoError(t, err)
	require.Equal(t, storage.MODE_PACKS, meta.Mode)
	require.Equal(t, "english", meta.Language)

	// the output directory now holds files
	_, err = execute(t, "-c", dir, "pull", "-l", "en", "packs", "-o", output)
	require.ErrorContains(t, err, "--force")
}
