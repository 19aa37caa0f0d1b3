package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/camden-git/dwhbackend/models"
)

// VehiclePayload is one entry of the vehicles array.
type VehiclePayload struct {
	RegistrationPlate string `json:"registration_plate"`
}

// Payload is a validated ingestion request: a person and the vehicles they
// currently own.
type Payload struct {
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Vehicles  []VehiclePayload `json:"vehicles"`
}

// FieldError is a single validation failure on one field of the payload.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError collects every field error found in a payload.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid payload"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, code, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Code: code, Message: message})
}

const (
	CodeParseError = "parse_error"
	CodeRequired   = "required"
	CodeNull       = "null"
	CodeInvalid    = "invalid"
	CodeBlank      = "blank"
	CodeMaxLength  = "max_length"
	CodeNotAList   = "not_a_list"
)

// DecodePayload parses body and checks it has the ingestion shape. Strings
// are trimmed, must be non-blank and at most models.MaxFieldLength
// characters. Unknown fields are ignored. On failure the returned error is a
// *ValidationError carrying every problem found.
func DecodePayload(body []byte) (Payload, error) {
	verr := &ValidationError{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		verr.add("", CodeParseError, "Invalid data. Expected a JSON object.")
		return Payload{}, verr
	}

	var p Payload
	p.FirstName = decodeString(fields, "first_name", "first_name", verr)
	p.LastName = decodeString(fields, "last_name", "last_name", verr)
	p.Email = decodeString(fields, "email", "email", verr)
	p.Vehicles = decodeVehicles(fields, verr)

	if len(verr.Errors) > 0 {
		return Payload{}, verr
	}
	return p, nil
}

func decodeString(fields map[string]json.RawMessage, key, path string, verr *ValidationError) string {
	raw, ok := fields[key]
	if !ok {
		verr.add(path, CodeRequired, "This field is required.")
		return ""
	}
	if isNull(raw) {
		verr.add(path, CodeNull, "This field may not be null.")
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		verr.add(path, CodeInvalid, "Not a valid string.")
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		verr.add(path, CodeBlank, "This field may not be blank.")
		return ""
	}
	if utf8.RuneCountInString(s) > models.MaxFieldLength {
		verr.add(path, CodeMaxLength, fmt.Sprintf("Ensure this field has no more than %d characters.", models.MaxFieldLength))
		return ""
	}
	return s
}

func decodeVehicles(fields map[string]json.RawMessage, verr *ValidationError) []VehiclePayload {
	raw, ok := fields["vehicles"]
	if !ok {
		verr.add("vehicles", CodeRequired, "This field is required.")
		return nil
	}
	if isNull(raw) {
		verr.add("vehicles", CodeNull, "This field may not be null.")
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		verr.add("vehicles", CodeNotAList, "Expected a list of items.")
		return nil
	}

	vehicles := make([]VehiclePayload, 0, len(items))
	for i, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			verr.add(fmt.Sprintf("vehicles[%d]", i), CodeInvalid, "Invalid data. Expected a JSON object.")
			continue
		}
		plate := decodeString(obj, "registration_plate", fmt.Sprintf("vehicles[%d].registration_plate", i), verr)
		vehicles = append(vehicles, VehiclePayload{RegistrationPlate: plate})
	}
	return vehicles
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
