package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

var newlineRun = regexp.MustCompile(`\n{3,}`)

// Validator provides validation methods
type Validator struct {
	validate *validator.Validate
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank rejects strings made only of whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateRoleplayRequest validates a roleplay request
func (v *Validator) ValidateRoleplayRequest(req *models.RoleplayRequest) *errors.AppError {
	if req == nil {
		return errors.InvalidRequest("Request body is required")
	}
	return v.Struct(req)
}

// Struct validates s against its validate tags
func (v *Validator) Struct(s interface{}) *errors.AppError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.ValidationError(describe(fieldErrs[0]))
	}
	return errors.InvalidRequest(err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("'%s' field is required", fe.Field())
	case "max":
		return fmt.Sprintf("'%s' field is too long (maximum %s characters)", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("'%s' field failed '%s' validation", fe.Field(), fe.Tag())
	}
}

// SanitizeMessage trims the message, drops null bytes and collapses long
// runs of blank lines
func (v *Validator) SanitizeMessage(message string) string {
	message = strings.TrimSpace(message)
	message = strings.ReplaceAll(message, "\x00", "")
	return newlineRun.ReplaceAllString(message, "\n\n")
}
