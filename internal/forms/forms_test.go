package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, len(errs))
	for i, ve := range errs {
		fields[i] = ve.Field
	}
	return fields
}

func TestLogin_Validate(t *testing.T) {
	tests := []struct {
		name       string
		form       Login
		wantFields []string
	}{
		{
			name: "valid",
			form: Login{Email: "kari@stud.noroff.no", Password: "x"},
		},
		{
			name:       "missing email",
			form:       Login{Password: "x"},
			wantFields: []string{"email"},
		},
		{
			name:       "wrong email domain",
			form:       Login{Email: "kari@gmail.com", Password: "x"},
			wantFields: []string{"email"},
		},
		{
			name:       "missing password",
			form:       Login{Email: "kari@stud.noroff.no"},
			wantFields: []string{"password"},
		},
		{
			name:       "everything missing",
			form:       Login{},
			wantFields: []string{"email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, fieldsOf(t, err))
		})
	}
}

func validRegistration() Registration {
	return Registration{
		Name:     "kari_nordmann",
		Email:    "kari@stud.noroff.no",
		Password: "hunter2-long",
	}
}

func TestRegistration_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Registration)
		wantFields []string
	}{
		{
			name:   "valid minimal",
			mutate: func(*Registration) {},
		},
		{
			name: "valid with optional profile fields",
			mutate: func(f *Registration) {
				f.Bio = "collector of fine things"
				f.AvatarURL = "https://img.example/a.jpg"
				f.AvatarAlt = "me"
				f.BannerURL = "https://img.example/b.jpg"
			},
		},
		{
			name:       "missing name",
			mutate:     func(f *Registration) { f.Name = "" },
			wantFields: []string{"name"},
		},
		{
			name:       "name with punctuation",
			mutate:     func(f *Registration) { f.Name = "kari.nordmann" },
			wantFields: []string{"name"},
		},
		{
			name:       "name with spaces",
			mutate:     func(f *Registration) { f.Name = "kari nordmann" },
			wantFields: []string{"name"},
		},
		{
			name:       "non-student email",
			mutate:     func(f *Registration) { f.Email = "kari@noroff.no" },
			wantFields: []string{"email"},
		},
		{
			name:       "short password",
			mutate:     func(f *Registration) { f.Password = "seven77" },
			wantFields: []string{"password"},
		},
		{
			name:       "bio too long",
			mutate:     func(f *Registration) { f.Bio = strings.Repeat("x", 161) },
			wantFields: []string{"bio"},
		},
		{
			name:   "bio at limit",
			mutate: func(f *Registration) { f.Bio = strings.Repeat("x", 160) },
		},
		{
			name:       "relative avatar url",
			mutate:     func(f *Registration) { f.AvatarURL = "/images/a.jpg" },
			wantFields: []string{"avatar"},
		},
		{
			name:       "avatar url without host",
			mutate:     func(f *Registration) { f.AvatarURL = "https://" },
			wantFields: []string{"avatar"},
		},
		{
			name:       "avatar alt too long",
			mutate:     func(f *Registration) { f.AvatarAlt = strings.Repeat("a", 121) },
			wantFields: []string{"avatarAlt"},
		},
		{
			name:       "banner url invalid",
			mutate:     func(f *Registration) { f.BannerURL = "not a url" },
			wantFields: []string{"banner"},
		},
		{
			name: "multiple failures reported together",
			mutate: func(f *Registration) {
				f.Name = "no good!"
				f.Email = "kari@example.com"
				f.Password = "short"
			},
			wantFields: []string{"name", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegistration()
			tt.mutate(&form)

			err := form.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, fieldsOf(t, err))
		})
	}
}

// TestValidate_NilOnSuccess guards against a typed-nil slice leaking into the
// error interface.
func TestValidate_NilOnSuccess(t *testing.T) {
	err := validRegistration().Validate()
	assert.Nil(t, err)

	err = Login{Email: "kari@stud.noroff.no", Password: "x"}.Validate()
	assert.Nil(t, err)
}

func TestValidationErrors_Message(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "email is required"},
		{Field: "password", Message: "password is required"},
	}
	assert.Equal(t, "email: email is required; password: password is required", errs.Error())
}
