package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
	"github.com/riveroslabs/merchant-console-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Success: true, Data: data})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeRateLimit,
		pkgerrors.CodeVendor,
		pkgerrors.CodeMalformed:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		Error:   string(typed.Code()),
		Message: msg,
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Details = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error":        dump.TopMessage,
			"error_code":   dump.Code,
			"error_chain":  dump.Chain,
			"gateway_code": dump.GatewayCode,
			"gateway_text": dump.GatewayText,
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
