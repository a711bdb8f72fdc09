package validator

import (
	"filmorate/proj/internal/domain/fields"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	govalidator "github.com/go-playground/validator/v10"
)

// New returns a validator with the project's custom rules registered.
func New() *govalidator.Validate {
	v := govalidator.New()
	v.RegisterCustomTypeFunc(dateValue, fields.Date{})
	mustRegister(v, "notblank", ValidateNotBlank)
	mustRegister(v, "nowhitespace", ValidateNoWhitespace)
	mustRegister(v, "notfuture", ValidateNotFuture)
	return v
}

func mustRegister(v *govalidator.Validate, tag string, fn govalidator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %q validation: %v", tag, err))
	}
}

// dateValue lets builtin tags like required treat an unset date as missing.
func dateValue(field reflect.Value) any {
	d, ok := field.Interface().(fields.Date)
	if !ok || d.IsZero() {
		return nil
	}
	return d.Time
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := reflect.Indirect(reflect.ValueOf(obj)).Type()
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			return jsonName
		}
	}
	return camelToSnake(origFieldName)
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.Indirect(reflect.ValueOf(obj)).Type()
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "gt":
			errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
		case "unique":
			errorMsg = "Value must not contain duplicate values"
		case "email":
			errorMsg = "Value must be a valid email address"
		case "notblank":
			errorMsg = "Value must not be blank"
		case "nowhitespace":
			errorMsg = "Value must not contain whitespace"
		case "notfuture":
			errorMsg = "Date must not be in the future"
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

func ValidateNotBlank(fl govalidator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func ValidateNoWhitespace(fl govalidator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

// ValidateNotFuture accepts dates up to and including today. Unset dates pass,
// so combine it with required when the value is mandatory.
func ValidateNotFuture(fl govalidator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case time.Time:
		return !fields.NewDate(v.Year(), v.Month(), v.Day()).After(fields.Today())
	case fields.Date:
		return !v.After(fields.Today())
	}
	return true
}
