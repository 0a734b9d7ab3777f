package mediator

// Envelope is the single shape every dispatched operation returns. Exactly
// one variant is populated: Status selects it, Code is present only on
// "error", and Message never carries raw fault detail (that goes into
// Context for diagnostics).
type Envelope struct {
	Status  string                 `json:"status"` // "success", "error" or "info"
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Code    Code                   `json:"code,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusInfo    = "info"
)

// Success builds the success variant.
func Success(message string, data map[string]interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Data: data}
}

// Failure builds the error variant. The code must be one of the taxonomy
// constants; callers outside this package normally go through Normalize
// instead of constructing failures by hand.
func Failure(code Code, message string, context map[string]interface{}) Envelope {
	if code == "" {
		code = CodeInternal
	}
	return Envelope{Status: StatusError, Message: message, Code: code, Context: context}
}

// Info builds the informational variant, used for outcomes that are neither
// a state change nor a fault (connection status probes and the like).
func Info(message string, data map[string]interface{}) Envelope {
	return Envelope{Status: StatusInfo, Message: message, Data: data}
}

// IsError reports whether the envelope carries the error variant.
func (e Envelope) IsError() bool {
	return e.Status == StatusError
}
