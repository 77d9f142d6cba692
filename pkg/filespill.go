// Package pkg provides utilities shared by the mutest commands.
package pkg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileSpill is a generic append-only log of items of type T kept on disk.
type FileSpill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

// Records are a 4-byte big-endian length followed by one self-describing gob
// value, so a log reopened by another process can keep appending.
const headerSize = 4

type fileSpillImpl[T any] struct {
	path   string
	file   *os.File
	mu     sync.Mutex
	length uint64
}

// OpenFileSpill opens the log at path, creating it and its directory when
// missing. A truncated trailing record left by a crash is discarded.
func OpenFileSpill[T any](path string) (FileSpill[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		slog.Error("failed to create spill directory", "path", path, "error", err)
		return nil, fmt.Errorf("failed to create spill directory: %w", err)
	}

	// #nosec G304 - path comes from configuration, not from untrusted input
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		slog.Error("failed to open spill file", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open spill file: %w", err)
	}

	length, valid, err := countRecords(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to scan spill file %s: %w", path, err)
	}

	if err := file.Truncate(valid); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to truncate spill file %s: %w", path, err)
	}

	if _, err := file.Seek(valid, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to seek spill file %s: %w", path, err)
	}

	slog.Debug("opened filespill", "path", path, "length", length)

	return &fileSpillImpl[T]{path: path, file: file, length: length}, nil
}

// countRecords returns the number of complete records and the byte size they
// occupy.
func countRecords(file *os.File) (uint64, int64, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}

	reader := bufio.NewReader(file)

	var (
		count uint64
		valid int64
		head  [headerSize]byte
	)

	for {
		if _, err := io.ReadFull(reader, head[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return count, valid, nil
			}

			return 0, 0, err
		}

		size := int64(binary.BigEndian.Uint32(head[:]))

		skipped, err := io.CopyN(io.Discard, reader, size)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, 0, err
		}

		if skipped < size {
			slog.Warn("discarding truncated spill record", "path", file.Name(), "index", count)
			return count, valid, nil
		}

		count++
		valid += headerSize + size
	}
}

// Append implements FileSpill.
func (f *fileSpillImpl[T]) Append(item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return fmt.Errorf("append to closed spill %s", f.path)
	}

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(item); err != nil {
		slog.Error("failed to encode item", "path", f.path, "index", f.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	record := make([]byte, headerSize, headerSize+payload.Len())
	binary.BigEndian.PutUint32(record, uint32(payload.Len())) //nolint:gosec // gob payloads stay far below 4GiB
	record = append(record, payload.Bytes()...)

	if _, err := f.file.Write(record); err != nil {
		slog.Error("failed to write item", "path", f.path, "index", f.length, "error", err)
		return fmt.Errorf("failed to write item: %w", err)
	}

	if err := f.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync spill file: %w", err)
	}

	f.length++
	slog.Debug("appended item", "path", f.path, "index", f.length-1)

	return nil
}

// Path implements FileSpill.
func (f *fileSpillImpl[T]) Path() string {
	return f.path
}

// AppendBatch implements FileSpill.
func (f *fileSpillImpl[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := f.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Close implements FileSpill.
func (f *fileSpillImpl[T]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}

	if err := f.file.Close(); err != nil {
		slog.Error("failed to close file", "path", f.path, "error", err)
		return err
	}

	f.file = nil
	slog.Debug("closed filespill", "path", f.path, "length", f.length)

	return nil
}

// Get implements FileSpill.
func (f *fileSpillImpl[T]) Get(index uint64) (T, error) {
	var found T

	f.mu.Lock()
	length := f.length
	f.mu.Unlock()

	if index >= length {
		slog.Warn("get index out of bounds", "path", f.path, "index", index, "length", length)
		return found, fmt.Errorf("index %d out of bounds (length %d)", index, length)
	}

	errStop := errors.New("stop")

	err := f.Range(func(i uint64, item T) error {
		if i == index {
			found = item
			return errStop
		}

		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		var zero T
		return zero, err
	}

	slog.Debug("got item", "path", f.path, "index", index)

	return found, nil
}

// Len implements FileSpill.
func (f *fileSpillImpl[T]) Len() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.length
}

// Range implements FileSpill.
func (f *fileSpillImpl[T]) Range(fn func(index uint64, item T) error) error {
	f.mu.Lock()
	length := f.length
	f.mu.Unlock()

	// #nosec G304 - reading back our own log
	file, err := os.Open(f.path)
	if err != nil {
		slog.Error("failed to open file for range", "path", f.path, "error", err)
		return fmt.Errorf("failed to open file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close file", "path", f.path, "error", err)
		}
	}()

	reader := bufio.NewReader(file)

	var head [headerSize]byte

	for i := range length {
		if _, err := io.ReadFull(reader, head[:]); err != nil {
			slog.Error("failed to read record header", "path", f.path, "index", i, "error", err)
			return fmt.Errorf("failed to read item at index %d: %w", i, err)
		}

		var item T

		payload := io.LimitReader(reader, int64(binary.BigEndian.Uint32(head[:])))
		if err := gob.NewDecoder(payload).Decode(&item); err != nil {
			slog.Error("failed to decode item during range", "path", f.path, "index", i, "error", err)
			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		// The decoder may stop short of the record end; drain the rest.
		if _, err := io.Copy(io.Discard, payload); err != nil {
			return fmt.Errorf("failed to skip item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	slog.Debug("range completed", "path", f.path, "count", length)

	return nil
}
