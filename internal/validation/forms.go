// Package validation holds the console's form payloads and their rules.
package validation

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"

	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
)

// Validator is implemented by every bound form.
type Validator interface {
	Validate() error
}

var consentRequired = validation.Required.Error("You must accept the terms and conditions")

type SignIn struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Consent  bool   `form:"consent" json:"consent"`
}

func (f SignIn) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Invalid email address"),
		),
		validation.Field(&f.Password,
			validation.Required.Error("Password is required"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		),
		validation.Field(&f.Consent, consentRequired),
	)
}

type SignUp struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
	Consent  bool   `form:"consent" json:"consent"`
}

func (f SignUp) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required.Error("Name is required"),
			validation.Length(2, 50).Error("Name must be between 2 and 50 characters"),
		),
		validation.Field(&f.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Invalid email address"),
		),
		validation.Field(&f.Password,
			validation.Required.Error("Password is required"),
			validation.Length(6, 50).Error("Password must be between 6 and 50 characters"),
		),
		validation.Field(&f.Role,
			validation.Required.Error("Role is required"),
			validation.In(string(models.UserRoleUser), string(models.UserRoleAdmin)).Error("Select a valid role"),
		),
		validation.Field(&f.Consent, consentRequired),
	)
}

// UserForm backs both the create and the edit screen. Editing is set by the
// handler before validation; it relaxes the password rules.
type UserForm struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone" json:"phone"`
	Country         string `form:"country" json:"country"`
	State           string `form:"state" json:"state"`
	City            string `form:"city" json:"city"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
	Organization    string `form:"organization" json:"organization"`
	Role            string `form:"role" json:"role"`

	Editing bool `form:"-" json:"-"`
}

func (f UserForm) Validate() error {
	fields := []*validation.FieldRules{
		validation.Field(&f.Name,
			validation.Required.Error("Name is required"),
			validation.Length(2, 50).Error("Name must be between 2 and 50 characters"),
		),
		validation.Field(&f.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Invalid email address"),
		),
		validation.Field(&f.Phone, validation.By(PhoneIn(f.Country))),
		validation.Field(&f.Role,
			validation.Required.Error("Role is required"),
			validation.In(string(models.UserRoleUser), string(models.UserRoleAdmin)).Error("Select a valid role"),
		),
		validation.Field(&f.Organization, validation.Length(0, 100).Error("Organization is too long")),
	}

	if f.Editing {
		fields = append(fields,
			validation.Field(&f.Password, validation.Length(6, 50).Error("Password must be between 6 and 50 characters")),
			validation.Field(&f.ConfirmPassword, validation.By(StringEquals(f.Password))),
		)
	} else {
		fields = append(fields,
			validation.Field(&f.Password,
				validation.Required.Error("Password is required"),
				validation.Length(6, 50).Error("Password must be between 6 and 50 characters"),
			),
			validation.Field(&f.ConfirmPassword,
				validation.Required.Error("Confirm your password"),
				validation.By(StringEquals(f.Password)),
			),
		)
	}

	return validation.ValidateStruct(&f, fields...)
}

// PhoneIn validates a phone number in the region of the given ISO country
// code. Numbers in international format are accepted without a country.
func PhoneIn(country string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		region := strings.ToUpper(strings.TrimSpace(country))
		if region == "" && !strings.HasPrefix(s, "+") {
			return errors.New("Select a country or use the international format")
		}
		num, err := phonenumbers.Parse(s, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return errors.New("Invalid phone number")
		}
		return nil
	}
}

// StringEquals fails when the value differs from want.
func StringEquals(want string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != want {
			return errors.New("Passwords do not match")
		}
		return nil
	}
}

// FieldErrors flattens a validation error into form field -> message. Errors
// that are not per-field land under "form".
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	out := map[string]string{}
	var errs validation.Errors
	if errors.As(err, &errs) {
		for field, fieldErr := range errs {
			out[field] = fieldErr.Error()
		}
		return out
	}
	out["form"] = err.Error()
	return out
}
