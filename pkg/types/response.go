package types

// SuccessEnvelope wraps every 2xx JSON body produced by api/responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape: a machine-readable code plus a message
// safe to show to the caller.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
