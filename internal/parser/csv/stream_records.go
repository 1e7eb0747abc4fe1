// Package csv streams a CRM export into header-keyed raw records. It is a
// thin reading adapter: rows flow to the pipeline via a channel, no whole
// file is buffered, and no cleaning or validation happens here.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Krishneshvar/subsync-import/internal/config"
	"github.com/Krishneshvar/subsync-import/internal/records"
)

// Row pairs a raw record with its 1-based line number in the source file
// (the header is line 1), so later stages can point at offending rows.
type Row struct {
	Line int
	Rec  records.Record
}

// StreamRecords reads CSV from src and sends one Row per data line to out.
//
// The first line must be a header; cells are keyed by their trimmed header
// name. Cells beyond the header width are dropped, and a short row simply
// omits the missing columns. Recoverable per-line parse errors go to onErr
// and the line is skipped; only unreadable input aborts the stream.
//
// Options: comma (string, default ","), trim_space (bool, default true),
// lazy_quotes (bool, default false).
//
// StreamRecords closes src and returns when input is exhausted or ctx is
// canceled. It never closes out.
func StreamRecords(
	ctx context.Context,
	src io.ReadCloser,
	opt config.Options,
	out chan<- Row,
	onErr func(line int, err error),
) error {
	defer src.Close()

	trim := opt.Bool("trim_space", true)

	cr := csv.NewReader(src)
	cr.Comma = opt.Rune("comma", ',')
	cr.LazyQuotes = opt.Bool("lazy_quotes", false)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		cols[i] = strings.TrimSpace(h)
	}

	line := 1
	for {
		cells, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				if onErr != nil {
					onErr(line, err)
				}
				continue
			}
			return fmt.Errorf("read line %d: %w", line, err)
		}

		rec := make(records.Record, len(cols))
		for i, c := range cols {
			if i >= len(cells) || c == "" {
				continue
			}
			v := cells[i]
			if trim {
				v = strings.TrimSpace(v)
			}
			rec[c] = v
		}

		select {
		case out <- Row{Line: line, Rec: rec}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
