// Package validate applies declarative per-field rules to incoming request
// bodies and normalizes accepted values. It has no side effects: a given
// input always maps to the same normalized values or the same ordered list
// of field errors.
package validate

import (
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their wire names, not Go struct names
	vd.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return vd
}

// FieldError describes a single failed rule for a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is an ordered list of field-level failures. Order follows
// field declaration order on the input struct.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + " " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// check runs the struct's tag rules and converts validator errors into
// field errors a client can act on.
func check(s interface{}) FieldErrors {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{{Field: "", Message: "invalid request"}}
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe.Tag())})
	}
	return out
}

func messageFor(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}

// Sanitize trims surrounding whitespace and escapes HTML metacharacters.
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// NormalizeEmail lowercases an address and canonicalizes gmail-style local
// parts, where dots and +tag suffixes are ignored by the provider.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if domain == "gmail.com" || domain == "googlemail.com" {
		if i := strings.Index(local, "+"); i >= 0 {
			local = local[:i]
		}
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	}
	return local + "@" + domain
}

// ContactInput carries the raw contact form fields.
type ContactInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Message  string `json:"message" validate:"required"`
	Redirect string `json:"redirect"`
}

// Validate trims the fields in place and runs the declared rules. A field
// that is whitespace-only therefore fails required.
func (in *ContactInput) Validate() FieldErrors {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	return check(in)
}

// Values returns the normalized value set. Only meaningful after Validate
// reported no errors.
func (in ContactInput) Values() (name, email, message string) {
	return Sanitize(in.Name), NormalizeEmail(in.Email), Sanitize(in.Message)
}

// SignupInput carries the raw mailing-list signup fields.
type SignupInput struct {
	ListID string `json:"listId" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

// Validate trims the fields in place and runs the declared rules.
func (in *SignupInput) Validate() FieldErrors {
	in.ListID = strings.TrimSpace(in.ListID)
	in.Email = strings.TrimSpace(in.Email)
	return check(in)
}

// Values returns the normalized value set.
func (in SignupInput) Values() (listID, email string) {
	return in.ListID, NormalizeEmail(in.Email)
}
