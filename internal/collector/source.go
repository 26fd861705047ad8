package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Source delivers raw OHLCV rows for a symbol.
type Source interface {
	FetchRows(ctx context.Context, symbol string) ([]Row, error)
	Name() string
}

// FileSource reads rows from a JSON file holding an array of objects, or
// an object with such an array under "data".
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) FetchRows(ctx context.Context, _ string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return rows, nil
}

// decodeRows parses a JSON row payload. Numbers keep their literal text so
// no precision is lost before parsing.
func decodeRows(data []byte) ([]Row, error) {
	var raw []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		var wrapped struct {
			Data []map[string]any `json:"data"`
		}
		dec = json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if werr := dec.Decode(&wrapped); werr != nil || wrapped.Data == nil {
			return nil, err
		}
		raw = wrapped.Data
	}

	rows := make([]Row, 0, len(raw))
	for _, obj := range raw {
		row := make(Row, len(obj))
		for k, v := range obj {
			switch val := v.(type) {
			case string:
				row[k] = val
			case json.Number:
				row[k] = val.String()
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
