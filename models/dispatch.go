package models

// DispatchStatus is the wire status of a single payment request attempt.
type DispatchStatus string

const (
	StatusSuccess DispatchStatus = "success"
	StatusFailure DispatchStatus = "failure"
	StatusError   DispatchStatus = "error"
)

// Outcome tags what happened to one assigned item during dispatch.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeServiceError
)

// Status maps an outcome onto its wire status.
func (o Outcome) Status() DispatchStatus {
	switch o {
	case OutcomeSuccess:
		return StatusSuccess
	case OutcomeNotFound:
		return StatusFailure
	default:
		return StatusError
	}
}

func (o Outcome) String() string {
	return string(o.Status())
}

// DispatchResult is returned to the caller, one per assigned item, in input order.
type DispatchResult struct {
	Status  DispatchStatus `json:"status"`
	Message string         `json:"message"`
}
