package types

// SuccessEnvelope is the standard success shape consumed by the console UI.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorEnvelope is the standard error shape; Message is displayed verbatim.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
