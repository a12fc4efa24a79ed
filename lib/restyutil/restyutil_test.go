package restyutil

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Add("X-B", "2")
	headers.Add("X-A", "1")
	headers.Add("X-A", "3")

	require.Equal(t, "X-A: 1\nX-A: 3\nX-B: 2", formatHeaders(headers))
	require.Equal(t, "", formatHeaders(nil))
}

func TestFilesystemOutput(t *testing.T) {
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(previous)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/image.png" {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, output)

	_, err = client.R().Get("/cardlist/")
	require.NoError(t, err)
	_, err = client.R().Get("/image.png")
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(dir, "1.http"))
	require.NoError(t, err)
	require.Contains(t, string(page), "GET "+server.URL+"/cardlist/")
	require.Contains(t, string(page), "<html>ok</html>")

	image, err := os.ReadFile(filepath.Join(dir, "2.http"))
	require.NoError(t, err)
	require.Contains(t, string(image), "<4 bytes of image/png>")
}
