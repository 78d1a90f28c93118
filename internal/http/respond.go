package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"selada/internal/core"
	applog "selada/internal/log"
	"selada/internal/middleware/trace"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, errorResponse{
		Error:     message,
		RequestID: trace.GetRequestID(r.Context()),
	})
}

// writeServiceError maps validation failures to 422 and everything else to 500.
// Internal error details are logged, never returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if core.IsValidationError(err) {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(), "Request failed", err,
		applog.ComponentHTTP, op, applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return errors.New("malformed JSON: trailing data")
	}
	return nil
}

// flexNumber accepts either a JSON number or a string such as "Rp 50.000".
type flexNumber struct {
	raw     string
	numeric bool
	set     bool
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexNumber{raw: s, set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a number or a string, got %s", b)
	}
	*f = flexNumber{raw: n.String(), numeric: true, set: true}
	return nil
}

func (f flexNumber) rupiah() (decimal.Decimal, error) {
	if !f.set {
		return decimal.Zero, fmt.Errorf("%w: amount is required", core.ErrInvalidAmount)
	}
	if !f.numeric {
		return core.ParseRupiah(f.raw)
	}
	if strings.ContainsAny(f.raw, "eE") {
		return decimal.Zero, fmt.Errorf("%w: exponent notation is not accepted", core.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(f.raw)
	if err != nil {
		return decimal.Zero, core.ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, core.ErrNegativeAmount
	}
	return d.Round(0), nil
}

func (f flexNumber) kilograms() (decimal.Decimal, error) {
	if !f.set {
		return decimal.Zero, fmt.Errorf("%w: kg is required", core.ErrInvalidQuantity)
	}
	return core.ParseKilograms(f.raw)
}

// parseDateOrToday treats a blank date as today's date.
func parseDateOrToday(s string, today core.Date) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return today, nil
	}
	return core.ParseDate(s)
}
