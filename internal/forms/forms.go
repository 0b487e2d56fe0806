package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Field names in validation errors
// are taken from the `form` tag so they line up with template input names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Errors maps a form field name to its validation messages.
type Errors map[string][]string

// Add appends a message to a field's error list.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the first error message for a field, or "".
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// RegisterForm carries the registration input fields.
type RegisterForm struct {
	Username  string `form:"username" validate:"required,max=20"`
	Password  string `form:"password" validate:"required"`
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"first_name" validate:"required,max=30"`
	LastName  string `form:"last_name" validate:"required,max=30"`
	Errors    Errors `form:"-" validate:"-"`
}

// Validate checks the form and records per-field errors.
// It is side-effect free beyond the form's own Errors map.
func (f *RegisterForm) Validate() bool {
	f.Errors = check(f)
	return len(f.Errors) == 0
}

// LoginForm carries the login input fields.
type LoginForm struct {
	Username string `form:"username" validate:"required,max=20"`
	Password string `form:"password" validate:"required"`
	Errors   Errors `form:"-" validate:"-"`
}

func (f *LoginForm) Validate() bool {
	f.Errors = check(f)
	return len(f.Errors) == 0
}

// FeedbackForm carries the add/update feedback input fields.
type FeedbackForm struct {
	Title   string `form:"title" validate:"required,max=100"`
	Content string `form:"content" validate:"required"`
	Errors  Errors `form:"-" validate:"-"`
}

func (f *FeedbackForm) Validate() bool {
	f.Errors = check(f)
	return len(f.Errors) == 0
}

// check runs the shared validator and translates tag failures into the
// user-facing messages the templates render next to each field.
func check(form interface{}) Errors {
	errs := Errors{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("", err.Error())
		return errs
	}

	for _, fe := range validationErrors {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "email":
		return "Invalid email address."
	default:
		return "Invalid value."
	}
}
