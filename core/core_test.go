package core

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestConfig(t *testing.T) {
	conf := NewTestConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.False(t, conf.Debug)
	assert.Equal(t, StorageMemory, conf.Storage)
	assert.Equal(t, 3*time.Second, conf.Server.LoginRedirectDelay)
	assert.Equal(t, "users", conf.Firestore.Collection)
	assert.Equal(t, "noreply@localhost", conf.DefaultFromEmail.Address)
}

func Test_configFromViper_envOverrides(t *testing.T) {
	t.Setenv("QA_STORAGE", "Firestore")
	t.Setenv("QA_LOGINREDIRECTDELAY", "1500ms")
	t.Setenv("QA_REDISADDRESS", "localhost:6379")

	v := viper.New()
	v.SetDefault("defaultFromEmail", "Student Dashboard <noreply@localhost>")
	v.SetDefault("storage", StorageMemory)
	v.SetDefault("loginRedirectDelay", 3*time.Second)
	v.SetDefault("redisAddress", "")
	v.SetDefault("dbHost", "db")
	v.SetDefault("dbPort", "5432")
	v.SetEnvPrefix("QA")
	v.AutomaticEnv()

	conf := configFromViper(v, "QA", "/srv")
	assert.Equal(t, StorageFirestore, conf.Storage)
	assert.Equal(t, 1500*time.Millisecond, conf.Server.LoginRedirectDelay)
	assert.Equal(t, "localhost:6379", conf.Redis.Address)
	assert.Equal(t, "db:5432", conf.Database.Address())
	assert.Equal(t, "Student Dashboard", conf.DefaultFromEmail.Name)
	assert.Equal(t, "/srv", conf.WorkDir)
}

func TestCleanString(t *testing.T) {
	tests := []struct {
		in, want string
		lower    bool
	}{
		{"  John Doe ", "John Doe", false},
		{"\tJohn@Test.CD\n", "john@test.cd", true},
		{"   ", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanString(tt.in, tt.lower))
	}
}

func TestTranslateValidationErrors(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	type form struct {
		Name  string `json:"name" validate:"notblank"`
		Email string `json:"email" validate:"required,email"`
	}

	tests := []struct {
		name     string
		form     form
		wantFlds []FieldError
	}{
		{"blank name", form{Name: "  ", Email: "a@b.cd"}, []FieldError{{Field: "name", Error: "this field cannot be blank"}}},
		{"missing email", form{Name: "A"}, []FieldError{{Field: "email", Error: "this field is required"}}},
		{"bad email", form{Name: "A", Email: "lol"}, []FieldError{{Field: "email", Error: "enter a valid email address"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TranslateValidationErrors(validate.Struct(tt.form), translator)
			require.True(t, IsValidationError(err))

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantFlds, vErr.Fields)
			assert.Equal(t, tt.wantFlds[0].Field+": "+tt.wantFlds[0].Error, err.Error())
		})
	}

	assert.NoError(t, TranslateValidationErrors(validate.Struct(form{Name: "A", Email: "a@b.cd"}), translator))
}

func TestEmailMessage_Render(t *testing.T) {
	conf := NewTestConfig()
	msg := &EmailMessage{
		Subject:      "Welcome!",
		TemplateName: "welcome",
		TemplateData: map[string]string{"Email": "new@test.test"},
	}
	require.NoError(t, msg.Render(conf))
	assert.True(t, msg.HasContent())
	assert.Contains(t, msg.TextContent, "new@test.test")
	assert.Contains(t, msg.HTMLContent, "new@test.test")
	assert.Contains(t, msg.HTMLContent, conf.AppName)

	missing := &EmailMessage{TemplateName: "nope"}
	assert.EqualError(t, missing.Render(conf), `email template "nope" not found`)
}

func TestErrorKinds(t *testing.T) {
	nf := NewNotFoundError("nope")
	assert.True(t, IsNotFound(errors.Wrap(nf, "looking up")))
	assert.False(t, IsAuthError(nf))

	assert.True(t, IsAuthError(NewAuthError("denied")))
	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("bye"), "serving")))

	se := NewStoreError("update", nf)
	assert.Equal(t, "nope", se.Error())
	assert.True(t, IsNotFound(se))
}
