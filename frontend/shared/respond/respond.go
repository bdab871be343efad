// Package respond writes JSON bodies and the API error envelope.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"odinpos/infrastructure/apperr"
)

// ErrorBody is the envelope returned for every failed API call.
type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

const maxBodyBytes = 1 << 20

var validate = validator.New()

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response", slog.Any("err", err))
	}
}

// Error maps err to its HTTP status and writes the envelope. Errors that
// are not user-facing are logged.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeInternal, err, "")
	}
	meta := apperr.MetadataFor(typed.Code())

	payload := ErrorPayload{Code: typed.Code(), Message: meta.PublicMessage}
	if meta.UserFacing || typed.Code() == apperr.CodeInvalidArgument {
		if msg := typed.Message(); msg != "" {
			payload.Message = msg
		}
	}
	if meta.DetailsAllowed {
		payload.Details = typed.Details()
	}
	if !meta.UserFacing {
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("code", string(typed.Code())),
			slog.Any("err", err))
	}
	JSON(w, meta.HTTPStatus, ErrorBody{Error: payload})
}

// Decode reads a JSON body into dst and runs its validate tags.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.CodeInvalidArgument, "request body is empty")
		}
		return apperr.Wrap(apperr.CodeInvalidArgument, err, "request body is not valid JSON")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+":"+fe.Tag())
			}
			return apperr.New(apperr.CodeInvalidArgument, "invalid request: "+strings.Join(fields, ", ")).WithDetails(fields)
		}
		return apperr.Wrap(apperr.CodeInvalidArgument, err, "invalid request")
	}
	return nil
}
