package usagelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// maxLineSize bounds a single NDJSON line; raw inputs are short but
// regulation tag lists can grow.
const maxLineSize = 1 << 20

// Read loads all usage events from an NDJSON file. Malformed lines are
// skipped with a warning rather than aborting, so one corrupt record never
// blocks the analytics jobs. A missing file yields an empty slice.
func Read(path string, logger *slog.Logger) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("open usage log: %w", err)
	}
	defer file.Close()

	events := make([]Event, 0)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			logger.Warn("skipping malformed usage event", "line", line, "error", err)
			continue
		}
		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan usage log: %w", err)
	}

	return events, nil
}
