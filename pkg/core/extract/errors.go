package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWorkbookUnreadable indicates a structural failure: the bytes are not a
// readable workbook, or the workbook has zero tabs. Distinct from missing
// sheets so the caller can abort before any generation call.
var ErrWorkbookUnreadable = errors.New("workbook unreadable")

// MissingSheetsError is a content-completeness failure: the workbook parsed
// fine but one or more hard-required statement tabs could not be resolved.
type MissingSheetsError struct {
	Missing []string
}

func (e *MissingSheetsError) Error() string {
	return fmt.Sprintf("missing required sheets: %s", strings.Join(e.Missing, ", "))
}
