// Package form turns validator errors into per-field messages for templates.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FormError is the key for messages not tied to a single field.
const FormError = "form"

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	setupOnce sync.Once
	setupErr  error
)

// Setup registers the custom validations on gin's validator and makes
// errors report the `form` tag name. Safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = errors.New("unexpected gin validator engine")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		}); err != nil {
			setupErr = err
			return
		}
		setupErr = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	})
	return setupErr
}

// IsValidUsername reports whether s only uses letters, digits and @/./+/-/_.
func IsValidUsername(s string) bool { return usernamePattern.MatchString(s) }

// IsValidSlug reports whether s only uses latin letters, digits, hyphens and underscores.
func IsValidSlug(s string) bool { return slugPattern.MatchString(s) }

// Errors maps a binding error to field messages. Unknown errors land on FormError.
func Errors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[FormError] = "The submitted form could not be read."
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters."
	case "slug":
		return "Use only latin letters, digits, hyphens and underscores."
	case "eqfield":
		return "The two password fields didn't match."
	case "uuid", "uuid4":
		return "Select a valid choice."
	default:
		return "Enter a valid value."
	}
}
