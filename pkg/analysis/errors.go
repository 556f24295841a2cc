package analysis

import "fmt"

// AnalysisRequestError is spec §7's AnalysisRequest taxonomy entry: the
// request itself is malformed, independent of the circuit it targets.
type AnalysisRequestError struct {
	Reason string
}

func (e *AnalysisRequestError) Error() string {
	return fmt.Sprintf("analysis request: %s", e.Reason)
}

func newRequestError(format string, args ...any) error {
	return &AnalysisRequestError{Reason: fmt.Sprintf(format, args...)}
}
