package model

import (
	"encoding/json"
	"fmt"
)

// CheckStatus represents the outcome of a single audit check.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and tallying. JSON marshaling converts to the
// stable string form ("ok", "warning", "error") so serialized results survive
// a round trip unchanged.
type CheckStatus int

const (
	// CheckStatusOK indicates the check passed with no issues.
	CheckStatusOK CheckStatus = iota

	// CheckStatusWarning indicates a non-fatal issue that should be improved.
	// Examples: a short title, a relative canonical URL.
	CheckStatusWarning

	// CheckStatusError indicates a critical issue that hurts search visibility.
	// Examples: a missing title tag, images without alt attributes.
	CheckStatusError
)

// String returns the stable serialized form of the status.
func (s CheckStatus) String() string {
	switch s {
	case CheckStatusOK:
		return "ok"
	case CheckStatusWarning:
		return "warning"
	case CheckStatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the status as its string form.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form back into a CheckStatus.
func (s *CheckStatus) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseCheckStatus(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseCheckStatus converts the serialized form back into a CheckStatus.
func ParseCheckStatus(text string) (CheckStatus, error) {
	switch text {
	case "ok":
		return CheckStatusOK, nil
	case "warning":
		return CheckStatusWarning, nil
	case "error":
		return CheckStatusError, nil
	default:
		return CheckStatusOK, fmt.Errorf("unknown check status %q", text)
	}
}

// RunStatus represents the overall outcome of a component run.
type RunStatus string

const (
	// RunCompleted indicates the component finished its analysis.
	// Individual checks may still have failed; see the component findings.
	RunCompleted RunStatus = "completed"

	// RunWarning indicates the component finished but the page itself is
	// the finding. Used by the schema validator when a page carries no
	// structured data at all.
	RunWarning RunStatus = "warning"

	// RunError indicates the component could not analyze at all, typically
	// because the primary fetch or parse failed.
	RunError RunStatus = "error"

	// RunNotFound indicates the analysis target does not exist.
	// Used by sitemap discovery when no sitemap could be located.
	RunNotFound RunStatus = "not_found"
)
