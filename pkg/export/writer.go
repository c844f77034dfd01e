package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"
)

// Marshal renders the document as YAML
func Marshal(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal topology document: %w", err)
	}
	return data, nil
}

// Unmarshal parses a YAML topology document
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal topology document: %w", err)
	}
	return &doc, nil
}

// WriteFile writes the document to path. With compress set, the YAML bytes
// are snappy-encoded; ReadFile detects which form it is reading.
func WriteFile(path string, doc *Document, compress bool) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if compress {
		data = snappy.Encode(nil, data)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write topology document: %w", err)
	}
	return nil
}

// ReadFile reads a document written by WriteFile, transparently handling
// snappy-compressed content
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology document: %w", err)
	}
	if decoded, derr := snappy.Decode(nil, data); derr == nil {
		data = decoded
	}
	return Unmarshal(data)
}
