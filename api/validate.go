package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

const maxInquiryBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// inquiryPayload keeps pointers so a missing field can be told apart from
// an empty string. Empty strings are accepted.
type inquiryPayload struct {
	Customer *string `json:"customer" validate:"required"`
	Person   *string `json:"person" validate:"required"`
	Inquiry  *string `json:"inquiry" validate:"required"`
}

func (p inquiryPayload) request() contractx.InquiryRequest {
	return contractx.InquiryRequest{
		Customer: *p.Customer,
		Person:   *p.Person,
		Inquiry:  *p.Inquiry,
	}
}

// inquiryFields lists the wire keys in the order their errors are reported.
var inquiryFields = []string{"customer", "person", "inquiry"}

// decodeInquiry returns the request or the field errors to report as 422.
// Keys are matched exactly and the body must hold a single JSON value.
func decodeInquiry(w http.ResponseWriter, r *http.Request) (contractx.InquiryRequest, []contractx.FieldError) {
	var fields map[string]json.RawMessage

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInquiryBodyBytes))
	if err := dec.Decode(&fields); err != nil {
		return contractx.InquiryRequest{}, []contractx.FieldError{decodeFieldError(err)}
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return contractx.InquiryRequest{}, []contractx.FieldError{trailingDataError(err)}
	}

	payload, typeErrs := payloadFromFields(fields)
	if len(typeErrs) > 0 {
		return contractx.InquiryRequest{}, typeErrs
	}

	if err := validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return contractx.InquiryRequest{}, []contractx.FieldError{{
				Loc: []string{"body"}, Msg: err.Error(), Type: "value_error",
			}}
		}
		return contractx.InquiryRequest{}, lo.Map(verrs, func(fe validator.FieldError, _ int) contractx.FieldError {
			return contractx.FieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  "Field required",
				Type: "missing",
			}
		})
	}

	return payload.request(), nil
}

// payloadFromFields fills the payload from exactly-named keys. Absent keys
// and nulls stay nil and are reported by the validator.
func payloadFromFields(fields map[string]json.RawMessage) (inquiryPayload, []contractx.FieldError) {
	var payload inquiryPayload
	targets := map[string]**string{
		"customer": &payload.Customer,
		"person":   &payload.Person,
		"inquiry":  &payload.Inquiry,
	}

	var errs []contractx.FieldError
	for _, name := range inquiryFields {
		raw, found := fields[name]
		if !found {
			continue
		}
		if err := json.Unmarshal(raw, targets[name]); err != nil {
			errs = append(errs, contractx.FieldError{
				Loc:  []string{"body", name},
				Msg:  "Input should be a valid string",
				Type: "string_type",
			})
		}
	}
	return payload, errs
}

func trailingDataError(err error) contractx.FieldError {
	var sizeErr *http.MaxBytesError
	if errors.As(err, &sizeErr) {
		return contractx.FieldError{Loc: []string{"body"}, Msg: "Request body too large", Type: "too_long"}
	}
	return contractx.FieldError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}
}

func decodeFieldError(err error) contractx.FieldError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var sizeErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return contractx.FieldError{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}
	case errors.As(err, &typeErr):
		return contractx.FieldError{
			Loc:  []string{"body"},
			Msg:  "Input should be a valid dictionary or object",
			Type: "model_attributes_type",
		}
	case errors.As(err, &sizeErr):
		return contractx.FieldError{Loc: []string{"body"}, Msg: "Request body too large", Type: "too_long"}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return contractx.FieldError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}
	default:
		return contractx.FieldError{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}
	}
}
