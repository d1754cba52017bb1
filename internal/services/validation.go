package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxRequestBody = 1_048_576

var (
	ErrInvalidBody    = errors.New("invalid request body")
	ErrMultipleValues = errors.New("request body must only contain a single JSON object")
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper wraps one shared validator instance.
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// DecodeJSONBody reads exactly one JSON object with no unknown fields into
// dst and validates it.
func (vh *ValidationHelper) DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrMultipleValues
	}
	return vh.ValidateStruct(dst)
}

// SendErrorResponse sends a JSON error response. Field details are included
// when err carries validator errors.
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, err error) {
	errorResp := ErrorResponse{Error: message}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		errorResp.Details = make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			errorResp.Details[fieldErr.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", fieldErr.Tag())
		}
	}

	SendJSON(w, statusCode, errorResp)
}

func SendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
