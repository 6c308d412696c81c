package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hazardsync/pkg/e"
	"hazardsync/pkg/validator"
)

const maxJSONBody = 64 << 10

// BindJSON strictly decodes a single JSON object from r into target and
// validates it. Decode problems wrap e.ErrInvalidInput, failed checks are
// *e.ValidationError.
func BindJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body: %w", e.ErrInvalidInput)
		}
		return fmt.Errorf("invalid JSON: %v: %w", err, e.ErrInvalidInput)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after JSON object: %w", e.ErrInvalidInput)
	}

	return validator.Check(target)
}
