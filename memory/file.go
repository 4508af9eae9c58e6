package memory

import (
	"fmt"
	"os"
	"strings"
)

// FileStore is the long-term file tier: a flat append-only text file
// shared across process invocations. Every append is a single
// open-append-close cycle in O_APPEND mode, so concurrent processes cannot
// interleave inside one entry; ordering between processes is whatever the
// filesystem serialized.
type FileStore struct {
	path     string
	maxBytes int64
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithMaxBytes refuses appends once the file has grown past n bytes.
// Zero means unbounded (the default).
func WithMaxBytes(n int64) FileOption {
	return func(s *FileStore) {
		s.maxBytes = n
	}
}

// NewFileStore creates a file tier backed by the file at path. The file is
// created on first append, not here.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Append writes one entry as a single line. A trailing newline is added
// when the entry lacks one. Open failures are surfaced to the caller, not
// retried.
func (s *FileStore) Append(entry string) error {
	if s.maxBytes > 0 {
		if info, err := os.Stat(s.path); err == nil && info.Size() >= s.maxBytes {
			return fmt.Errorf("file memory at %s exceeds size limit (%d bytes)", s.path, s.maxBytes)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open file memory: %w", err)
	}

	if !strings.HasSuffix(entry, "\n") {
		entry += "\n"
	}
	_, werr := f.WriteString(entry)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("append to file memory: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close file memory: %w", cerr)
	}
	return nil
}

// Read returns the entire current file content verbatim. A missing file
// reads as empty: the tier simply has no entries yet.
func (s *FileStore) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read file memory: %w", err)
	}
	return string(data), nil
}
