package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// ErrUnrecognizedFormat is returned when a document is neither JSON lines,
// a top-level array, nor an object with a packages array.
var ErrUnrecognizedFormat = errors.New("unrecognized descriptor format")

// previewLength bounds how much of a malformed record is logged.
const previewLength = 100

// recordAPI decodes individual records. ConfigStd keeps encoding/json
// semantics for null versus empty collections.
var recordAPI = sonic.ConfigStd

// parseResult holds the records that decoded and the number that did not.
type parseResult struct {
	descriptors []*Descriptor
	failures    int
}

// parseDescriptors detects the document shape and decodes every record.
// Malformed records are logged and counted rather than aborting the parse.
func parseDescriptors(data []byte, logger Logger) (*parseResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &parseResult{}, nil
	}

	switch trimmed[0] {
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return nil, fmt.Errorf("%w: top-level array: %v", ErrUnrecognizedFormat, err)
		}
		return decodeElements(elements, logger), nil

	case '{':
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			// Not a single object, so each line stands alone.
			return decodeLines(trimmed, logger), nil
		}
		if raw, ok := doc["packages"]; ok {
			var elements []json.RawMessage
			if err := json.Unmarshal(raw, &elements); err != nil {
				return nil, fmt.Errorf("%w: packages property is not an array", ErrUnrecognizedFormat)
			}
			return decodeElements(elements, logger), nil
		}
		if bytes.ContainsAny(trimmed, "\r\n") {
			return nil, fmt.Errorf("%w: object without a packages array", ErrUnrecognizedFormat)
		}
		return decodeLines(trimmed, logger), nil
	}

	return decodeLines(trimmed, logger), nil
}

func decodeElements(elements []json.RawMessage, logger Logger) *parseResult {
	result := &parseResult{descriptors: make([]*Descriptor, 0, len(elements))}
	for i, raw := range elements {
		var d Descriptor
		if err := recordAPI.Unmarshal(raw, &d); err != nil {
			logger.Warn("skipping malformed element", "index", i, "preview", preview(raw), "error", err)
			result.failures++
			continue
		}
		result.descriptors = append(result.descriptors, &d)
	}
	return result
}

func decodeLines(data []byte, logger Logger) *parseResult {
	result := &parseResult{}
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var d Descriptor
		if err := recordAPI.Unmarshal(line, &d); err != nil {
			logger.Warn("skipping malformed line", "line", i+1, "preview", preview(line), "error", err)
			result.failures++
			continue
		}
		result.descriptors = append(result.descriptors, &d)
	}
	return result
}

// preview truncates b to previewLength runes for logging.
func preview(b []byte) string {
	if utf8.RuneCount(b) <= previewLength {
		return string(b)
	}
	runes := []rune(string(b))
	return string(runes[:previewLength]) + "..."
}
