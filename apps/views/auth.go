package views

import (
	"context"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

const (
	msgLoginSuccess   = "Login Success!"
	msgAccountCreated = "Account created successfully!"
	errSaveProfile    = "Error saving profile: "
)

type (
	LoginForm struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password,omitempty" form:"password"`
	}

	// SignupForm carries the credentials and, optionally, the student profile.
	SignupForm struct {
		Email      string `json:"email" form:"email"`
		Password   string `json:"password,omitempty" form:"password"`
		Name       string `json:"name" form:"name"`
		Degree     string `json:"degree" form:"degree"`
		Department string `json:"department" form:"department"`
		Year       string `json:"year" form:"year"`
		Course     string `json:"course" form:"course"`
	}

	Login struct {
		deps  Deps
		store session.Store
		page  *Page

		Form LoginForm `json:"form"`
	}

	Signup struct {
		deps  Deps
		store session.Store
		page  *Page

		Form    SignupForm `json:"form"`
		Courses []string   `json:"courses"`
	}
)

// dashboardFor returns the landing route of a session.
func dashboardFor(s session.Session) string {
	if s.IsAdmin() {
		return RouteAdminDashboard
	}
	return RouteDashboard
}

func NewLogin(deps Deps, store session.Store, page *Page) *Login {
	return &Login{deps: deps, store: store, page: page}
}

// Submit signs in with exactly the entered fields; on failure the form keeps its values.
func (v *Login) Submit(ctx context.Context, form LoginForm) bool {
	v.Form = form
	s, err := v.store.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		v.page.Notify(LevelError, err.Error())
		return false
	}
	v.page.Token = s.Token
	v.page.Notify(LevelSuccess, msgLoginSuccess)
	v.page.Navigate(dashboardFor(s), v.deps.Conf.Server.LoginRedirectDelay)
	return true
}

func NewSignup(deps Deps, store session.Store, page *Page) *Signup {
	return &Signup{deps: deps, store: store, page: page, Courses: student.Courses}
}

// Submit creates the account, then its student profile when a name was entered.
func (v *Signup) Submit(ctx context.Context, form SignupForm) bool {
	v.Form = form

	s, err := v.store.CreateAccount(ctx, form.Email, form.Password)
	if err != nil {
		v.page.Notify(LevelError, err.Error())
		return false
	}
	v.page.Token = s.Token
	v.page.Notify(LevelSuccess, msgAccountCreated)

	if name := core.CleanString(form.Name); name != "" {
		pf := student.FormFromRecord(student.Record{
			Name:       name,
			Email:      s.Email,
			Degree:     core.CleanString(form.Degree),
			Department: core.CleanString(form.Department),
			Year:       core.CleanString(form.Year),
			Course:     core.CleanString(form.Course),
		})
		if _, err = v.deps.Records.Create(ctx, pf.Record(s.UID)); err != nil {
			v.page.notifyErr(errSaveProfile, core.NewStoreError("create", err))
			return false
		}
	}

	v.page.Navigate(dashboardFor(s), v.deps.Conf.Server.LoginRedirectDelay)
	return true
}
