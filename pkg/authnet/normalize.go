package authnet

import (
	"bytes"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// stripBOM removes the UTF-8 byte-order mark the gateway prepends to
// response bodies.
func stripBOM(body []byte) []byte {
	return bytes.TrimPrefix(body, utf8BOM)
}

// locateResult finds the result payload inside a response body. The gateway
// wraps results as {"<operation>Response": {...}} for most operations but
// returns the bare result object (recognizable by its messages field) for
// others; anything else is malformed.
func locateResult(body []byte, operation string) (json.RawMessage, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, fmt.Sprintf("gateway %s response is not a JSON object", operation))
	}
	if raw, ok := probe[operation+"Response"]; ok {
		return raw, nil
	}
	if _, ok := probe["messages"]; ok {
		return body, nil
	}
	return nil, pkgerrors.New(
		pkgerrors.CodeMalformed,
		fmt.Sprintf("gateway response matches neither %sResponse wrapper nor bare result", operation),
	)
}
