package knowledge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Store is the read-side repository over the two knowledge files. It loads
// both documents at construction and serves lookups from memory; Reload
// refreshes the cached documents after an offline merge. File order is
// preserved because resolution is first-match.
type Store struct {
	compliancePath string
	vettingPath    string
	logger         *slog.Logger

	mu    sync.RWMutex
	rules []ComplianceRule
	hints []VettingHints
}

// NewStore creates a Store over the given file paths and performs the
// initial load. A missing file yields an empty collection rather than an
// error so a fresh deployment can serve before the first knowledge build.
func NewStore(compliancePath, vettingPath string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		compliancePath: compliancePath,
		vettingPath:    vettingPath,
		logger:         logger.With("system", "knowledge"),
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads both knowledge files, replacing the cached collections.
func (s *Store) Reload() error {
	rules, err := loadDocument[ComplianceRule](s.compliancePath, s.logger)
	if err != nil {
		return fmt.Errorf("load compliance rules: %w", err)
	}

	hints, err := loadDocument[VettingHints](s.vettingPath, s.logger)
	if err != nil {
		return fmt.Errorf("load vetting hints: %w", err)
	}

	s.mu.Lock()
	s.rules = rules
	s.hints = hints
	s.mu.Unlock()

	s.logger.Info("knowledge store loaded", "rules", len(rules), "hints", len(hints))
	return nil
}

// Rules returns a copy of the compliance rule collection in file order.
func (s *Store) Rules() []ComplianceRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := make([]ComplianceRule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

// Hints returns the vetting hints record with the given identifier, or nil.
func (s *Store) Hints(id string) *VettingHints {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.hints {
		if s.hints[i].ID == id {
			h := s.hints[i]
			return &h
		}
	}
	return nil
}

// Resolve finds the best-matching compliance rule for a product name and/or
// HTS code, optionally filtered by target market. Returns nil when nothing
// matches; resolution never errors.
func (s *Store) Resolve(productName, htsCode, market string) *ComplianceRule {
	s.mu.RLock()
	rules := s.rules
	s.mu.RUnlock()

	return resolve(rules, productName, htsCode, market)
}

func loadDocument[T any](path string, logger *slog.Logger) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("knowledge file missing, starting empty", "path", path)
			return []T{}, nil
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
	return doc.Categories, nil
}
