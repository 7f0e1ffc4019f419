package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// MergeRule upserts a compliance rule into the document at path, replacing
// the record with a matching identifier or appending. The file is created
// from an empty template when absent. When sortByID is set the collection is
// re-sorted alphabetically by identifier, matching the bulk-build path.
func MergeRule(path string, rule ComplianceRule, sortByID bool) error {
	if rule.ID == "" || rule.Label == "" {
		return ErrInvalidRecord
	}
	return mergeRecord(path, rule, func(r ComplianceRule) string { return r.ID }, sortByID)
}

// MergeHints upserts a vetting hints record into the document at path,
// with the same replace-or-append and sorting semantics as MergeRule.
func MergeHints(path string, hints VettingHints, sortByID bool) error {
	if hints.ID == "" || hints.Label == "" {
		return ErrInvalidRecord
	}
	return mergeRecord(path, hints, func(h VettingHints) string { return h.ID }, sortByID)
}

func mergeRecord[T any](path string, item T, id func(T) string, sortByID bool) error {
	doc, err := readDocument[T](path)
	if err != nil {
		return err
	}

	replaced := false
	for i := range doc.Categories {
		if id(doc.Categories[i]) == id(item) {
			doc.Categories[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Categories = append(doc.Categories, item)
	}

	if sortByID {
		sort.Slice(doc.Categories, func(i, j int) bool {
			return id(doc.Categories[i]) < id(doc.Categories[j])
		})
	}

	return writeDocument(path, doc)
}

func readDocument[T any](path string) (*document[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document[T]{Categories: []T{}}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc document[T]
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Categories == nil {
		doc.Categories = []T{}
	}
	return &doc, nil
}

// writeDocument persists with stable formatting: 2-space indent plus a
// trailing newline, so repeated merges produce minimal diffs.
func writeDocument[T any](path string, doc *document[T]) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
