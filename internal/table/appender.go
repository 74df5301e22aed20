package table

import (
	"encoding/csv"
	"os"
	"sync"

	"github.com/rotisserie/eris"
)

// Appender is an append-only row sink. The header is written exactly once
// over the life of the underlying file, no matter how many times Append is
// called or how many appenders have touched the file before.
type Appender interface {
	Append(header, row []string) error
	Close() error
}

// FileAppender appends CSV rows to a file opened in O_APPEND mode. A
// single appender may be shared across goroutines; its mutex serializes
// writes so each row lands as one append. The header is emitted only when
// the file is empty at append time, so reopening a partial run's file
// continues it rather than restarting it.
type FileAppender struct {
	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
	seen bool // file known non-empty; skip the stat
}

// NewFileAppender opens (or creates) path for appending.
func NewFileAppender(path string) (*FileAppender, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, eris.Wrap(err, "table: open appender")
	}
	return &FileAppender{f: f, w: csv.NewWriter(f)}, nil
}

// Append writes one row, preceded by the header if the file is still empty.
func (a *FileAppender) Append(header, row []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.seen {
		info, err := a.f.Stat()
		if err != nil {
			return eris.Wrap(err, "table: stat appender")
		}
		if info.Size() == 0 {
			if err := a.w.Write(header); err != nil {
				return eris.Wrap(err, "table: append header")
			}
		}
		a.seen = true
	}

	if err := a.w.Write(row); err != nil {
		return eris.Wrap(err, "table: append row")
	}
	a.w.Flush()
	return eris.Wrap(a.w.Error(), "table: flush append")
}

// Close flushes and closes the underlying file.
func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		a.f.Close()
		return eris.Wrap(err, "table: flush on close")
	}
	return eris.Wrap(a.f.Close(), "table: close appender")
}
