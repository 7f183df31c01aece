package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidationError carries every failed rule for a payload, in
// declaration order, so clients see the full list rather than just the
// first failure.
type RequestValidationError struct {
	Messages []string
}

func (e *RequestValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	// Report fields by their json names so messages match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return &RequestValidationError{Messages: msgs}
		}
		return err
	}
	return nil
}

// fieldLabels overrides the human-readable name for fields whose json
// name reads poorly in a sentence.
var fieldLabels = map[string]string{
	"from":         "From date",
	"fieldofstudy": "Field of study",
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	label, ok := fieldLabels[field]
	if !ok {
		label = strings.ToUpper(field[:1]) + field[1:]
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please include a valid email"
	case "min":
		return fmt.Sprintf("Please enter a %s with %s or more characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}

// bindAndValidate decodes the payload and runs its declared rules. On a
// validation failure it writes the 400 response itself and reports
// handled=true so the route handler can just return.
func bindAndValidate(c echo.Context, req any) (handled bool, err error) {
	if err := c.Bind(req); err != nil {
		return true, c.JSON(http.StatusBadRequest, errorsResponse{
			Errors: []errorMessage{{Msg: "Invalid request payload"}},
		})
	}
	if err := c.Validate(req); err != nil {
		var ve *RequestValidationError
		if errors.As(err, &ve) {
			msgs := make([]errorMessage, 0, len(ve.Messages))
			for _, m := range ve.Messages {
				msgs = append(msgs, errorMessage{Msg: m})
			}
			return true, c.JSON(http.StatusBadRequest, errorsResponse{Errors: msgs})
		}
		return true, err
	}
	return false, nil
}
