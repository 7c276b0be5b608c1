package captable

import "fmt"

// CalculationError reports a precondition that failed while processing a
// round. The whole calculation is abandoned; no partial result is returned.
type CalculationError struct {
	RoundID   string
	RoundName string
	Reason    string
}

func (e *CalculationError) Error() string {
	if e.RoundID == "" && e.RoundName == "" {
		return fmt.Sprintf("cap table calculation failed: %s", e.Reason)
	}
	return fmt.Sprintf("round %q (id %s): %s", e.RoundName, e.RoundID, e.Reason)
}
