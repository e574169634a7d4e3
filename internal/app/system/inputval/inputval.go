// Package inputval validates registry input structs declared with
// `validate:"..."` and `label:"..."` tags.
//
// Custom rules:
//   - inn: 12 digits
//   - snils: 11 digits
//   - phone: loose international pattern
//   - email: address accepted by SimpleEmailValid, no display name
//   - isodate: YYYY-MM-DD or RFC 3339
//   - nonblank: not empty after trimming
//   - objectid: 24-char hex
//
// Custom rules accept "", so optional fields only need omitempty/omitnil and
// presence is enforced by required or nonblank.
package inputval

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	validate "github.com/dalemusser/waffle/pantry/validate"
	"github.com/go-playground/validator/v10"
	"github.com/sroam/sroregistry/internal/app/system/dates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	innRe   = regexp.MustCompile(`^\d{12}$`)
	snilsRe = regexp.MustCompile(`^\d{11}$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]{5,20}$`)
)

// FieldError describes one invalid input field. Field is the JSON path,
// e.g. "insurance.amount" or "inspections[0].startDate".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects validation failures in declaration order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// Add records a failure that was detected outside the tag rules.
func (r *Result) Add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// Has reports whether field has an error.
func (r *Result) Has(field string) bool {
	for _, fe := range r.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// First returns the first message or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// IsValidINN reports whether s is a 12-digit individual taxpayer number.
func IsValidINN(s string) bool { return innRe.MatchString(s) }

// IsValidSNILS reports whether s is an 11-digit insurance account number.
func IsValidSNILS(s string) bool { return snilsRe.MatchString(s) }

// IsValidPhone accepts digits, spaces, dashes and parentheses with an
// optional leading plus.
func IsValidPhone(s string) bool { return phoneRe.MatchString(s) }

// IsValidEmail rejects display-name forms and anything SimpleEmailValid refuses.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	return validate.SimpleEmailValid(s)
}

// IsValidObjectID reports whether s is a Mongo ObjectID in hex.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		rule := func(tag string, fn func(string) bool) {
			_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				s := fl.Field().String()
				return s == "" || fn(s)
			})
		}
		rule("inn", IsValidINN)
		rule("snils", IsValidSNILS)
		rule("phone", IsValidPhone)
		rule("email", IsValidEmail)
		rule("objectid", IsValidObjectID)
		rule("isodate", func(s string) bool {
			_, err := dates.Parse(s)
			return err == nil
		})
		_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return v
}

// Validate checks s against its validate tags.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Add("", "Invalid input.")
		return res
	}
	root := reflect.TypeOf(s)
	for root.Kind() == reflect.Ptr {
		root = root.Elem()
	}
	for _, fe := range verrs {
		res.Add(jsonPath(fe.Namespace()), message(fe, labelFor(root, fe.StructNamespace(), fe.Field())))
	}
	return res
}

// jsonPath drops the root struct name from a namespace.
func jsonPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// labelFor walks the struct namespace to find the field's label tag.
func labelFor(root reflect.Type, structNs, fallback string) string {
	parts := strings.Split(structNs, ".")
	t := root
	var field reflect.StructField
	for _, p := range parts[1:] {
		if i := strings.IndexByte(p, '['); i >= 0 {
			p = p[:i]
		}
		for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return fallback
		}
		f, ok := t.FieldByName(p)
		if !ok {
			return fallback
		}
		field, t = f, f.Type
	}
	if l := field.Tag.Get("label"); l != "" {
		return l
	}
	return fallback
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required", "nonblank":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		if k := fe.Kind(); k == reflect.Float32 || k == reflect.Float64 || k == reflect.Int || k == reflect.Int64 {
			return fmt.Sprintf("%s must not be negative.", label)
		}
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "A valid email address is required."
	case "inn":
		return fmt.Sprintf("%s must be exactly 12 digits.", label)
	case "snils":
		return fmt.Sprintf("%s must be exactly 11 digits.", label)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number.", label)
	case "isodate":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD).", label)
	case "objectid":
		return fmt.Sprintf("%s must be a valid identifier.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
