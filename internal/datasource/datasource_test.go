package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Krishneshvar/subsync-import/internal/config"
)

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rc, err := Open(context.Background(), config.Source{
		Kind: "file",
		File: config.SourceFile{Path: path},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "a,b\n1,2\n" {
		t.Fatalf("content=%q", got)
	}
}

func TestOpen_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "a,b\n1,2\n")
	}))
	defer srv.Close()

	rc, err := Open(context.Background(), config.Source{
		Kind: "http",
		HTTP: config.SourceHTTP{URL: srv.URL},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if string(got) != "a,b\n1,2\n" {
		t.Fatalf("content=%q", got)
	}
}

func TestOpen_HTTPNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := Open(context.Background(), config.Source{
		Kind: "http",
		HTTP: config.SourceHTTP{URL: srv.URL},
	}); err == nil {
		t.Fatalf("404 accepted")
	}
}

func TestOpen_UnsupportedKind(t *testing.T) {
	if _, err := Open(context.Background(), config.Source{Kind: "ftp"}); err == nil {
		t.Fatalf("unsupported kind accepted")
	}
}
