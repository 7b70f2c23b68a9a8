// Package forms performs client-side validation of the login and
// registration forms. Validation failures never reach the network.
package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError reports a single malformed form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every failed field of one form submission.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// orNil returns the collected errors, or nil when the form is valid. A typed
// nil slice inside a non-nil error interface would defeat err == nil checks.
func (e ValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@stud\.noroff\.no$`)
)

const (
	maxBioLength = 160
	maxAltLength = 120
	minPassword  = 8
)

// Login holds the login form fields.
type Login struct {
	Email    string
	Password string
}

// Validate checks the login form.
func (f Login) Validate() error {
	var errs ValidationErrors
	errs = append(errs, checkEmail(f.Email)...)
	if f.Password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "password is required"})
	}
	return errs.orNil()
}

// Registration holds the registration form fields.
type Registration struct {
	Name      string
	Email     string
	Password  string
	Bio       string
	AvatarURL string
	AvatarAlt string
	BannerURL string
	BannerAlt string
}

// Validate checks the registration form.
func (f Registration) Validate() error {
	var errs ValidationErrors

	switch {
	case f.Name == "":
		errs = append(errs, ValidationError{Field: "name", Message: "username is required"})
	case !namePattern.MatchString(f.Name):
		errs = append(errs, ValidationError{Field: "name", Message: "username can only contain letters, numbers, and underscores"})
	}

	errs = append(errs, checkEmail(f.Email)...)

	if utf8.RuneCountInString(f.Password) < minPassword {
		errs = append(errs, ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPassword)})
	}

	if utf8.RuneCountInString(f.Bio) > maxBioLength {
		errs = append(errs, ValidationError{Field: "bio", Message: fmt.Sprintf("bio must be less than %d characters", maxBioLength)})
	}

	errs = append(errs, checkMedia("avatar", f.AvatarURL, f.AvatarAlt)...)
	errs = append(errs, checkMedia("banner", f.BannerURL, f.BannerAlt)...)

	return errs.orNil()
}

func checkEmail(email string) ValidationErrors {
	var errs ValidationErrors
	switch {
	case email == "":
		errs = append(errs, ValidationError{Field: "email", Message: "email is required"})
	case !emailPattern.MatchString(email):
		errs = append(errs, ValidationError{Field: "email", Message: "must be a valid stud.noroff.no email"})
	}
	return errs
}

// checkMedia validates an optional image URL and its alt text. An empty URL
// is allowed; a present URL must be absolute.
func checkMedia(field, rawURL, alt string) ValidationErrors {
	var errs ValidationErrors
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			errs = append(errs, ValidationError{Field: field, Message: "must be a valid URL"})
		}
	}
	if utf8.RuneCountInString(alt) > maxAltLength {
		errs = append(errs, ValidationError{Field: field + "Alt", Message: fmt.Sprintf("alt text must be less than %d characters", maxAltLength)})
	}
	return errs
}
