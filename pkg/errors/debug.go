package errors

import (
	"errors"
	"fmt"
)

// gatewayError is implemented by the gateway client's vendor error so the
// dump can surface the raw vendor diagnostics without an import cycle.
type gatewayError interface {
	error
	GatewayCode() string
	GatewayText() string
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	GatewayCode string `json:"gateway_code,omitempty"`
	GatewayText string `json:"gateway_text,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var gwErr gatewayError
	if errors.As(err, &gwErr) {
		d.GatewayCode = gwErr.GatewayCode()
		d.GatewayText = gwErr.GatewayText()
	}

	return d
}
