// Package datasource opens the configured input for reading. Sources are
// thin I/O adapters: a missing file or failed request is fatal to the run
// and reported once, before any row is processed.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Krishneshvar/subsync-import/internal/config"
)

// Open resolves the source kind and returns a byte stream for it. Closing
// the stream is the caller's job (the CSV streamer does so when it
// finishes).
func Open(ctx context.Context, src config.Source) (io.ReadCloser, error) {
	switch src.Kind {
	case "file":
		f, err := os.Open(src.File.Path)
		if err != nil {
			return nil, fmt.Errorf("open source file: %w", err)
		}
		return f, nil

	case "http":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.HTTP.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("build source request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch source: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch source: %s", resp.Status)
		}
		return resp.Body, nil

	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind)
	}
}
