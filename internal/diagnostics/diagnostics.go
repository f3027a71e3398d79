// Package diagnostics recovers structured completion records from the
// free-form diagnostics strings emitted by the orchestrator.
//
// The extraction is a pipeline of fallible steps (locate marker, parse JSON,
// scan containers, locate anchors, parse block) composed with degrade-on-
// failure semantics: a malformed payload never fails the caller, it only
// narrows what is reported.
package diagnostics

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	// matchedMarker precedes the JSON-encoded per-container completion
	// payload appended by the orchestrator's completion-status matcher.
	matchedMarker = "matched: "

	// Anchors bounding a runtime-emitted structured error block inside a
	// container termination message.
	runtimeErrorStartAnchor = "[RUNTIME_ERROR_START]"
	runtimeErrorEndAnchor   = "[RUNTIME_ERROR_END]"
)

// Record is the structured form of an orchestrator diagnostics string.
// Runtime and Launcher are mutually exclusive: exactly one is non-nil when
// the diagnostics are non-empty.
type Record struct {
	// DiagnosticsSummary is the diagnostics text with any JSON tail
	// replaced by a pretty-printed equivalent.
	DiagnosticsSummary string `json:"diagnosticsSummary,omitempty"`

	// Runtime is the runtime-emitted error payload, when one was found.
	Runtime *RuntimeOutput `json:"runtime,omitempty"`

	// Launcher is the launcher-level diagnostics text, superseded by
	// Runtime when that is present.
	Launcher *string `json:"launcher,omitempty"`
}

// RuntimeOutput is a runtime error block recovered from a container
// termination message.
type RuntimeOutput struct {
	// Name is the container the block was recovered from.
	Name string `json:"name"`

	// Fields are the parsed fields of the block.
	Fields map[string]interface{} `json:"fields,omitempty"`
}

type podCompletionStatus struct {
	Name       string                      `json:"name"`
	Containers []containerCompletionStatus `json:"containers"`
}

type containerCompletionStatus struct {
	Name    string `json:"name"`
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// Extract parses an orchestrator diagnostics string. Empty input yields nil.
func Extract(diagnostics string) *Record {
	if diagnostics == "" {
		return nil
	}
	summary, completion, ok := renderMatchedPayload(diagnostics)
	if !ok {
		raw := diagnostics
		return &Record{DiagnosticsSummary: raw, Launcher: &raw}
	}
	record := Record{DiagnosticsSummary: summary, Launcher: &summary}
	if runtime := extractRuntimeOutput(completion); runtime != nil {
		// Runtime output supersedes launcher-level reporting.
		record.Runtime = runtime
		record.Launcher = nil
	}
	return &record
}

// renderMatchedPayload locates the trailing matched marker and replaces its
// JSON tail with a pretty-printed equivalent. Reports false when no
// parseable payload is present.
func renderMatchedPayload(diagnostics string) (string, *podCompletionStatus, bool) {
	markerIdx := strings.LastIndex(diagnostics, matchedMarker)
	if markerIdx < 0 {
		return "", nil, false
	}
	tail := diagnostics[markerIdx+len(matchedMarker):]

	var generic map[string]interface{}
	if err := json.Unmarshal([]byte(tail), &generic); err != nil {
		log.Warn().Err(err).Msg("Failed to parse matched completion payload in diagnostics")
		return "", nil, false
	}
	var completion podCompletionStatus
	if err := json.Unmarshal([]byte(tail), &completion); err != nil {
		log.Warn().Err(err).Msg("Failed to parse matched completion payload in diagnostics")
		return "", nil, false
	}
	rendered, err := yaml.Marshal(generic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to render matched completion payload in diagnostics")
		return "", nil, false
	}
	summary := diagnostics[:markerIdx] + "matched:\n" + string(rendered)
	return summary, &completion, true
}

// extractRuntimeOutput scans the completion payload for the first container
// with a positive exit code carrying a well-formed runtime error block.
func extractRuntimeOutput(completion *podCompletionStatus) *RuntimeOutput {
	for _, container := range completion.Containers {
		if container.Code <= 0 {
			continue
		}
		block, ok := cutAnchoredBlock(container.Message)
		if !ok {
			continue
		}
		var fields map[string]interface{}
		if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
			log.Warn().Err(err).Str("container", container.Name).Msg("Failed to parse runtime error block")
			continue
		}
		return &RuntimeOutput{Name: container.Name, Fields: fields}
	}
	return nil
}

func cutAnchoredBlock(message string) (string, bool) {
	startIdx := strings.Index(message, runtimeErrorStartAnchor)
	if startIdx < 0 {
		return "", false
	}
	rest := message[startIdx+len(runtimeErrorStartAnchor):]
	endIdx := strings.Index(rest, runtimeErrorEndAnchor)
	if endIdx < 0 {
		return "", false
	}
	return rest[:endIdx], true
}
