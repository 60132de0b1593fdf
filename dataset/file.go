package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/rankeval/blobstore"
	"github.com/hupe1980/rankeval/codec"
	"github.com/hupe1980/rankeval/model"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrEmptyDataset is returned when a dataset file holds no records.
var ErrEmptyDataset = errors.New("empty dataset")

// Record is one labeled point of a dataset file.
type Record struct {
	ID     model.ID     `json:"id"`
	Label  string       `json:"label"`
	Vector model.Vector `json:"vector"`
}

// Compression identifies a blob compression by file suffix.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// CompressionFor returns the compression implied by a blob name.
func CompressionFor(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return CompressionZstd
	case strings.HasSuffix(name, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Load reads a dataset blob and returns its store and label partitioner.
// If c is nil, codec.Default is used.
func Load(ctx context.Context, store blobstore.BlobStore, name string, c codec.Codec) (*MemoryStore, *ByLabel, error) {
	if c == nil {
		c = codec.Default
	}

	raw, err := store.Get(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset %q: %w", name, err)
	}

	data, err := decompress(CompressionFor(name), raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decompress dataset %q: %w", name, err)
	}

	var records []Record
	if err := c.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("decode dataset %q with %s: %w", name, c.Name(), err)
	}

	return FromRecords(records)
}

// FromRecords builds a store and label partitioner from records.
func FromRecords(records []Record) (*MemoryStore, *ByLabel, error) {
	if len(records) == 0 {
		return nil, nil, ErrEmptyDataset
	}

	ds, err := NewMemoryStore(len(records[0].Vector))
	if err != nil {
		return nil, nil, err
	}

	labels := make(map[model.ID]string, len(records))
	for _, r := range records {
		if err := ds.Add(r.ID, r.Vector); err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", r.ID, err)
		}
		labels[r.ID] = r.Label
	}

	return ds, &ByLabel{labels: labels}, nil
}

// Save encodes records and writes them to a blob, compressing according to
// the blob name. If c is nil, codec.Default is used.
func Save(ctx context.Context, store blobstore.BlobStore, name string, records []Record, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}

	data, err := c.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode dataset %q with %s: %w", name, c.Name(), err)
	}

	data, err = compress(CompressionFor(name), data)
	if err != nil {
		return fmt.Errorf("compress dataset %q: %w", name, err)
	}

	return store.Put(ctx, name, data)
}

func decompress(comp Compression, data []byte) ([]byte, error) {
	switch comp {
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return data, nil
	}
}

func compress(comp Compression, data []byte) ([]byte, error) {
	switch comp {
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(data, nil), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return data, nil
	}
}
