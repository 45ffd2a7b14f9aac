package views

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

// routes
const (
	RouteSignup         = "/"
	RouteLogin          = "/login"
	RouteDashboard      = "/dashboard"
	RouteAdminDashboard = "/admin-dashboard"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type (
	// Notice is a transient message shown to the user.
	Notice struct {
		Level   Level  `json:"level"`
		Message string `json:"message"`
	}

	Redirect struct {
		To      string `json:"to"`
		AfterMS int64  `json:"after_ms"`
	}

	// Page collects what a view produced while handling one request.
	Page struct {
		Notices  []Notice    `json:"notices"`
		Redirect *Redirect   `json:"redirect,omitempty"`
		View     interface{} `json:"view,omitempty"`
		Token    string      `json:"token,omitempty"`
	}

	// Confirmer asks the user to confirm a destructive action.
	Confirmer func(prompt string) bool

	// Deps are the collaborators shared by every view.
	Deps struct {
		Conf       *core.Config
		Records    student.Repository
		Insights   student.InsightSource
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
	}
)

func NewPage() *Page {
	return &Page{Notices: make([]Notice, 0)}
}

func (p *Page) Notify(level Level, msg string) {
	p.Notices = append(p.Notices, Notice{Level: level, Message: msg})
}

// Navigate schedules a redirect; the last one wins.
func (p *Page) Navigate(to string, after time.Duration) {
	p.Redirect = &Redirect{To: to, AfterMS: after.Milliseconds()}
}

func (p *Page) notifyErr(prefix string, err error) {
	p.Notify(LevelError, prefix+err.Error())
}

// Confirmed returns a Confirmer answering ok to every prompt.
func Confirmed(ok bool) Confirmer {
	return func(string) bool { return ok }
}
