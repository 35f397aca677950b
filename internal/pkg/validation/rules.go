package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// SlugPattern allows lowercase letters, digits and hyphens
	SlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

	// PhoneSuffixPattern matches exactly four digits
	PhoneSuffixPattern = regexp.MustCompile(`^\d{4}$`)

	// PasswordMinLength is the minimum password length on registration
	PasswordMinLength = 6
)

// New returns a validator with the project rules registered.
func New() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

// Register adds the custom tags and makes field errors report the `label`
// struct tag (falling back to the json name) as the field name.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return SlugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("digits4", func(fl validator.FieldLevel) bool {
		return PhoneSuffixPattern.MatchString(fl.Field().String())
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// SetupGinValidator registers the project rules on gin's binding engine.
func SetupGinValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	Register(v)
	return nil
}

// FirstError returns the json field name and a user-facing message for the first
// failing field of err. ok is false when err is not a validation error.
func FirstError(err error) (field, message string, ok bool) {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return "", "", false
	}
	fe := vErrs[0]
	return fe.StructField(), Message(fe), true
}

// Message renders a single field error
func Message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + "不能为空"
	case "email":
		return label + "格式不正确"
	case "url":
		return label + "必须是有效的URL"
	case "slug":
		return label + "只能包含小写字母、数字和连字符"
	case "digits4":
		return label + "必须是4位数字"
	case "oneof":
		return fmt.Sprintf("%s必须是以下之一: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s至少需要%s个字符", label, fe.Param())
		}
		return fmt.Sprintf("%s不能小于%s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s不能超过%s个字符", label, fe.Param())
		}
		return fmt.Sprintf("%s不能大于%s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s不能小于%s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s不能大于%s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s必须大于%s", label, fe.Param())
	default:
		return label + "格式不正确"
	}
}
