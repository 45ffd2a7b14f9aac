package views

import (
	"context"

	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

const (
	msgUserNotFound  = "User data not found."
	msgLoggedOut     = "Logged out successfully!"
	errFetchUserData = "Error fetching user data: "
	errLoggingOut    = "Error logging out: "
)

// StudentDashboard shows the signed-in student's own record.
type StudentDashboard struct {
	deps  Deps
	page  *Page
	gate  *Gate
	ctx   context.Context
	store session.Store

	Profile        *student.Record         `json:"profile"`
	CourseProgress *student.CourseProgress `json:"course_progress,omitempty"`
	UpcomingEvents []student.Event         `json:"upcoming_events"`
}

func NewStudentDashboard(deps Deps, store session.Store, page *Page) *StudentDashboard {
	v := &StudentDashboard{deps: deps, page: page, store: store, UpcomingEvents: make([]student.Event, 0)}
	v.gate = newGate(store, page, false, v.load)
	return v
}

// Mount activates the gate, loading the profile when a session is present.
func (v *StudentDashboard) Mount(ctx context.Context) {
	v.ctx = ctx
	v.gate.Activate()
}

func (v *StudentDashboard) Unmount() {
	v.gate.Deactivate()
}

func (v *StudentDashboard) load(s session.Session) {
	recs, err := v.deps.Records.QueryByField(v.ctx, student.FieldUID, s.UID)
	if err != nil {
		v.page.notifyErr(errFetchUserData, err)
		return
	}
	if len(recs) == 0 {
		v.page.Notify(LevelError, msgUserNotFound)
		v.page.Navigate(RouteLogin, 0)
		return
	}
	if len(recs) > 1 {
		v.deps.Logger.Warn("several student records share one uid", map[string]interface{}{"uid": s.UID, "count": len(recs)}, s.Person())
	}

	rec := recs[0]
	progress := v.deps.Insights.CourseProgress(rec)
	v.Profile = &rec
	v.CourseProgress = &progress
	v.UpcomingEvents = v.deps.Insights.UpcomingEvents(rec)
}

func (v *StudentDashboard) Logout(ctx context.Context) {
	logout(ctx, v.gate, v.page)
}

func logout(ctx context.Context, gate *Gate, page *Page) {
	if err := gate.SignOut(ctx); err != nil {
		page.notifyErr(errLoggingOut, err)
		return
	}
	page.Notify(LevelSuccess, msgLoggedOut)
	page.Navigate(RouteLogin, 0)
}
