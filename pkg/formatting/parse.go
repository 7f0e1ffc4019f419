package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParseFailed is returned when content is not valid JSON, directly
// or inside a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

const fence = "```"

// Parse unmarshals model output into T. Models frequently wrap their
// JSON in a markdown code fence, so when direct unmarshaling fails the
// fenced block is extracted and tried again.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	if block, ok := fencedBlock(content); ok {
		if err := json.Unmarshal([]byte(block), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

// fencedBlock returns the contents of the first ``` code fence,
// dropping an optional language tag on the opening line.
func fencedBlock(content string) (string, bool) {
	open := strings.Index(content, fence)
	if open == -1 {
		return "", false
	}

	rest := content[open+len(fence):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// opening line may carry a language tag such as "json"
		rest = rest[nl+1:]
	}

	end := strings.Index(rest, fence)
	if end == -1 {
		return "", false
	}

	return strings.TrimSpace(rest[:end]), true
}
