package address

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/dukerupert/thaiaddress/internal/storage"
)

// Source yields the raw dataset for a single Load.
type Source interface {
	// Name identifies the source in errors and logs; its extension is used
	// for format sniffing.
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

type fileSource struct {
	path string
}

// FileSource reads the dataset from a local file.
func FileSource(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Name() string { return s.path }

func (s fileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(s.path)
}

type storageSource struct {
	store storage.Storage
	key   string
}

// StorageSource reads the dataset from a blob store (local directory or R2).
func StorageSource(store storage.Storage, key string) Source {
	return storageSource{store: store, key: key}
}

func (s storageSource) Name() string { return s.key }

func (s storageSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.store.Get(ctx, s.key)
}

type readerSource struct {
	name string
	data []byte
}

// ReaderSource serves bundled data, e.g. an embedded file or test fixture.
// The reader is drained immediately so the source can be loaded repeatedly.
func ReaderSource(name string, r io.Reader) Source {
	data, err := io.ReadAll(r)
	if err != nil {
		return errSource{name: name, err: err}
	}
	return readerSource{name: name, data: data}
}

func (s readerSource) Name() string { return s.name }

func (s readerSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

type errSource struct {
	name string
	err  error
}

func (s errSource) Name() string { return s.name }

func (s errSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return nil, s.err
}
