// Package builder implements the offline knowledge pipeline: one free-text
// category description in, one compliance rule plus one vetting-hints record
// merged into the knowledge store and committed to version control.
package builder

import "errors"

// Stage errors. Each aborts the pipeline for its own category only.
var (
	ErrEmptyDescription = errors.New("category description is empty")
	ErrInputParse       = errors.New("input parsing failed")
	ErrResearchParse    = errors.New("research output unparseable")
	ErrVerifyParse      = errors.New("verification output unparseable")
)
