package content

// State names the active variant of a Result.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
	StateSuccess State = "success"
)

// Result is what the results panel renders. Exactly one variant is active;
// only the fields belonging to that variant are populated.
type Result struct {
	State State `json:"state"`

	// Error variant.
	Message string `json:"message,omitempty"`

	// Success variant.
	Content            string    `json:"content,omitempty"`
	ImagePrompt        string    `json:"imagePrompt,omitempty"`
	ComplianceStatus   string    `json:"complianceStatus,omitempty"`
	ComplianceFeedback string    `json:"complianceFeedback,omitempty"`
	Metadata           *Metadata `json:"metadata,omitempty"`
}

// Idle is the result before any submission.
func Idle() Result {
	return Result{State: StateIdle}
}

// Loading is the result while a request is in flight.
func Loading() Result {
	return Result{State: StateLoading}
}

// Failed builds the error variant.
func Failed(message string) Result {
	return Result{State: StateError, Message: message}
}

// Succeeded builds the success variant from an API response.
func Succeeded(resp Response) Result {
	result := Result{
		State:              StateSuccess,
		Content:            resp.Content,
		ImagePrompt:        resp.ImagePrompt,
		ComplianceStatus:   resp.ComplianceStatus,
		ComplianceFeedback: resp.ComplianceFeedback,
	}
	if resp.Metadata != nil {
		meta := *resp.Metadata
		result.Metadata = &meta
	}
	return result
}

// IsIdle reports whether no submission has happened yet.
func (r Result) IsIdle() bool { return r.State == StateIdle || r.State == "" }

// IsLoading reports whether a request is in flight.
func (r Result) IsLoading() bool { return r.State == StateLoading }

// IsError reports whether the last submission failed.
func (r Result) IsError() bool { return r.State == StateError }

// IsSuccess reports whether the last submission produced content.
func (r Result) IsSuccess() bool { return r.State == StateSuccess }

// Terminal reports whether the result is Error or Success.
func (r Result) Terminal() bool { return r.IsError() || r.IsSuccess() }
