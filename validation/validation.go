// Package validation checks form input against JSON schemas and turns
// schema errors into per-field messages for the user.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalid is wrapped by every *Error.
var ErrInvalid = errors.New("invalid input")

type FieldError struct {
	Field   string
	Message string
}

// Error lists the fields that failed validation, in schema order.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// First is the message of the first failing field.
func (e *Error) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Message
}

// For returns the message for field, or "".
func (e *Error) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Fail builds a single-field validation error for checks a schema cannot express.
func Fail(field, message string) error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

// Schema is a compiled JSON schema with user-facing messages keyed by
// "field" or "field:errortype".
type Schema struct {
	name     string
	schema   *gojsonschema.Schema
	messages map[string]string
	order    []string
}

// MustCompile compiles src and panics on a malformed schema.
func MustCompile(name, src string, messages map[string]string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("validation: compile %s schema: %v", name, err))
	}
	var head struct {
		Required []string `json:"required"`
	}
	_ = json.Unmarshal([]byte(src), &head)
	return &Schema{name: name, schema: s, messages: messages, order: head.Required}
}

// Validate checks doc (any JSON-encodable value) against the schema.
func (s *Schema) Validate(doc any) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate %s: %w", s.name, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &Error{}
	seen := map[string]bool{}
	for _, re := range result.Errors() {
		field := fieldOf(re)
		if seen[field] {
			continue
		}
		seen[field] = true
		verr.Fields = append(verr.Fields, FieldError{Field: field, Message: s.message(field, re)})
	}
	// gojsonschema walks properties in map order; report in form order.
	slices.SortStableFunc(verr.Fields, func(a, b FieldError) int {
		return s.rank(a.Field) - s.rank(b.Field)
	})
	return verr
}

func (s *Schema) message(field string, re gojsonschema.ResultError) string {
	if m, ok := s.messages[field+":"+re.Type()]; ok {
		return m
	}
	if m, ok := s.messages[field]; ok {
		return m
	}
	return re.Description()
}

func (s *Schema) rank(field string) int {
	if i := slices.Index(s.order, field); i >= 0 {
		return i
	}
	return len(s.order)
}

func fieldOf(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			return p
		}
	}
	return re.Field()
}
