// Package jsonfile reads product feeds and writes category results as JSON.
// Decode validates every record before returning any of them.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gondola/backend/internal/domain"
)

// Decode parses a JSON array of products. It fails with *domain.ShapeError
// when the document is not an array and with *domain.FieldError for the
// first record whose title or supermarket is missing, empty or not a string.
func Decode(r io.Reader) ([]domain.ProductRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}
	return Parse(data)
}

// Parse is Decode over an in-memory document
func Parse(data []byte) ([]domain.ProductRecord, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing products: %w", err)
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, &domain.ShapeError{Got: jsonKind(raw)}
	}

	records := make([]domain.ProductRecord, 0, len(items))
	for i, item := range items {
		obj, _ := item.(map[string]interface{})

		title, ok := nonEmptyString(obj, "title")
		if !ok {
			return nil, &domain.FieldError{Index: i, Field: "title"}
		}
		supermarket, ok := nonEmptyString(obj, "supermarket")
		if !ok {
			return nil, &domain.FieldError{Index: i, Field: "supermarket"}
		}

		records = append(records, domain.ProductRecord{Title: title, Supermarket: supermarket})
	}

	return records, nil
}

// LoadFile reads and validates a product feed from disk
func LoadFile(path string) ([]domain.ProductRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return records, nil
}

// Encode writes groups as a 2-space indented JSON array
func Encode(w io.Writer, groups []domain.CategoryGroup) error {
	if groups == nil {
		groups = []domain.CategoryGroup{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(groups)
}

// WriteFile encodes groups into path, replacing any existing file
func WriteFile(path string, groups []domain.CategoryGroup) error {
	var buf bytes.Buffer
	if err := Encode(&buf, groups); err != nil {
		return fmt.Errorf("encoding categories: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func nonEmptyString(obj map[string]interface{}, field string) (string, bool) {
	s, ok := obj[field].(string)
	return s, ok && s != ""
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
