package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteReport persists a report as stably formatted JSON, creating parent
// directories as needed.
func WriteReport(path string, report any) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ReadPopularity loads a previously generated popularity report. The
// reinforcement tool uses it to select its top-N category set.
func ReadPopularity(path string) (PopularityReport, error) {
	var report PopularityReport

	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("reading popularity report: %w", err)
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("decoding popularity report: %w", err)
	}
	return report, nil
}
