package authnet

import (
	"errors"
	"fmt"
	"strings"
)

// notFoundCode is the gateway's documented "record cannot be found" code.
const notFoundCode = "E00040"

// VendorError carries a non-Ok gateway result. Message is the
// comma-separated concatenation of every message text; Code is the first
// message's vendor code.
type VendorError struct {
	Code    string
	Message string
}

func (e *VendorError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GatewayCode exposes the vendor code for error dumps.
func (e *VendorError) GatewayCode() string {
	if e == nil {
		return ""
	}
	return e.Code
}

// GatewayText exposes the vendor message for error dumps.
func (e *VendorError) GatewayText() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// resultError maps a messages block to nil on Ok, or a VendorError carrying
// the concatenated message texts otherwise.
func resultError(m *Messages) *VendorError {
	if m.OK() {
		return nil
	}
	verr := &VendorError{Message: "gateway returned a non-Ok result"}
	if m == nil {
		return verr
	}
	texts := make([]string, 0, len(m.Message))
	for _, msg := range m.Message {
		if strings.TrimSpace(msg.Text) != "" {
			texts = append(texts, msg.Text)
		}
	}
	if len(texts) > 0 {
		verr.Message = strings.Join(texts, ", ")
	}
	if len(m.Message) > 0 {
		verr.Code = m.Message[0].Code
	}
	return verr
}

// IsNotFound reports whether the error chain carries the gateway's
// record-not-found result.
func IsNotFound(err error) bool {
	var verr *VendorError
	return errors.As(err, &verr) && verr.Code == notFoundCode
}
