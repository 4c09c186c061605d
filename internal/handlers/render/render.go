package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vietcharge/vietcharge/internal/apperrors"
)

var validate = validator.New()

func init() {
	// Report on json tag name instead of struct field name
	// Look at documentation of 'RegisterTagNameFunc' for more details
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		// skip if tag key says it should be ignored
		if name == "-" {
			return ""
		}
		return name
	})
}

type Struct any

// Meta accompanies every response; list endpoints add pagination
type Meta struct {
	Timestamp  time.Time `json:"timestamp"`
	Page       int       `json:"page,omitempty"`
	Limit      int       `json:"limit,omitempty"`
	Total      int       `json:"total,omitempty"`
	TotalPages int       `json:"totalPages,omitempty"`
}

func Pagination(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    Meta `json:"meta"`
}

type errorDetail struct {
	Code    apperrors.Kind    `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
	Meta    Meta        `json:"meta"`
}

func JSON(w http.ResponseWriter, data any) {
	JSONWithStatus(w, data, http.StatusOK)
}

func JSONWithStatus(w http.ResponseWriter, data any, code int) {
	jsonWithStatus(w, successEnvelope{Success: true, Data: data, Meta: Meta{Timestamp: time.Now().UTC()}}, code)
}

func JSONWithMeta(w http.ResponseWriter, data any, meta Meta) {
	meta.Timestamp = time.Now().UTC()
	jsonWithStatus(w, successEnvelope{Success: true, Data: data, Meta: meta}, http.StatusOK)
}

// Error renders any error with its kind and status hint.
// Errors that carry no apperrors.Error are internal: the caller gets a
// generic message, never the underlying detail.
func Error(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.New(apperrors.KindInternal, "something went wrong", http.StatusInternalServerError)
	}

	renderError(w, errorDetail{Code: appErr.Kind, Message: appErr.Message}, appErr.Status)
}

// Render json decode error
func DecodeError(w http.ResponseWriter, err error) {
	detail := errorDetail{Code: apperrors.KindValidation}

	// Try to provide more specific error message based on error type
	switch err := err.(type) {
	case *json.UnmarshalTypeError:
		detail.Message = fmt.Sprintf("invalid data type for field '%s'", err.Field)
	default:
		detail.Message = fmt.Sprintf("failed to parse JSON: %s", err.Error())
	}

	renderError(w, detail, http.StatusBadRequest)
}

// Render validation errors with a message per failed field
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	detail := errorDetail{
		Code:    apperrors.KindValidation,
		Message: "request validation failed",
		Fields:  make(map[string]string, len(errs)),
	}

	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "email":
			message = "Must be a valid email address"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		default:
			message = "Invalid value"
		}

		detail.Fields[fieldError.Field()] = message
	}

	renderError(w, detail, http.StatusBadRequest)
}

// BindAndValidate decodes JSON request body into type T and validates it
// using struct tags. Writes the appropriate error response itself for
// decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}

func renderError(w http.ResponseWriter, detail errorDetail, code int) {
	jsonWithStatus(w, errorEnvelope{Error: detail, Meta: Meta{Timestamp: time.Now().UTC()}}, code)
}

// jsonWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
