// Package names maps the opaque "user~job" identifiers used by this service
// onto the stricter DNS-1123 naming rules of the orchestrator, and back.
package names

import (
	"encoding/base32"
	"regexp"
	"strings"

	"github.com/opencluster/framework-job-scheduler/defaults"
)

const (
	// UserJobSeparator joins the user and job segments of an identifier.
	UserJobSeparator = "~"

	// foreignPrefix marks resource names this service did not generate.
	foreignPrefix = "unknown"
)

// Lowercase base32 keeps encoded names within the orchestrator's allowed
// identifier character set while staying reversible.
var encoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

var disallowedChars = regexp.MustCompile(`[^a-z0-9]`)

// IsGenerated reports whether name follows this service's own "user~job"
// identifier shape, as opposed to a foreign or legacy resource name.
func IsGenerated(name string) bool {
	return strings.Contains(name, UserJobSeparator) && !strings.HasPrefix(name, foreignPrefix)
}

// Encode maps a job identifier to an orchestrator resource name.
// Own-generated identifiers are reversibly base32 encoded; foreign names are
// lossily normalized to the allowed character set with the synthetic prefix
// stripped.
func Encode(name string) string {
	if !IsGenerated(name) {
		normalized := disallowedChars.ReplaceAllString(strings.ToLower(name), "")
		return strings.TrimPrefix(normalized, foreignPrefix)
	}
	return encoding.EncodeToString([]byte(name))
}

// Decode maps an orchestrator resource name back to the job identifier.
// The jobName label is authoritative when present; otherwise the encoded
// name passes through unchanged, which is the best this service can do for
// resources it did not create.
func Decode(encodedName string, labels map[string]string) string {
	if jobName, ok := labels[defaults.JobNameLabel]; ok && jobName != "" {
		return jobName
	}
	return encodedName
}
