package views

import (
	"context"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

const (
	DeletePrompt = "Are you sure you want to delete this user?"

	msgUserUpdated = "User updated successfully!"
	msgUserDeleted = "User deleted successfully!"
	msgUserAdded   = "User added successfully!"
	errFetchUsers  = "Error fetching users: "
	errUpdateUser  = "Error updating user: "
	errDeleteUser  = "Error deleting user: "
	errAddUser     = "Error adding user: "
)

type EditState struct {
	ID   string       `json:"id"`
	Form student.Form `json:"form"`
}

// AdminDashboard lists, filters, edits and deletes every student record.
type AdminDashboard struct {
	deps    Deps
	page    *Page
	gate    *Gate
	ctx     context.Context
	session *session.Session
	loaded  bool

	all []student.Record

	Users   []student.Record `json:"users"`
	Filter  student.Filter   `json:"filter"`
	Courses []string         `json:"courses"`
	Editing *EditState       `json:"editing,omitempty"`
}

func NewAdminDashboard(deps Deps, store session.Store, page *Page) *AdminDashboard {
	v := &AdminDashboard{
		deps:    deps,
		page:    page,
		all:     make([]student.Record, 0),
		Users:   make([]student.Record, 0),
		Courses: append([]string{student.AllCourses}, student.Courses...),
	}
	v.gate = newGate(store, page, true, v.load)
	return v
}

func (v *AdminDashboard) Mount(ctx context.Context) {
	v.ctx = ctx
	v.gate.Activate()
}

func (v *AdminDashboard) Unmount() {
	v.gate.Deactivate()
}

// Loaded reports whether the gate passed and the collection was fetched.
func (v *AdminDashboard) Loaded() bool {
	return v.loaded
}

func (v *AdminDashboard) load(s session.Session) {
	v.session = &s
	recs, err := v.deps.Records.ListAll(v.ctx)
	if err != nil {
		v.page.notifyErr(errFetchUsers, err)
		return
	}
	v.all = recs
	v.loaded = true
	v.applyFilter()
}

func (v *AdminDashboard) applyFilter() {
	v.Users = v.Filter.Apply(v.all)
}

// All returns the unfiltered collection.
func (v *AdminDashboard) All() []student.Record {
	return v.all
}

func (v *AdminDashboard) SetNameQuery(q string) {
	v.Filter.NameQuery = q
	v.applyFilter()
}

func (v *AdminDashboard) SelectCourse(course string) {
	v.Filter.SelectedCourse = course
	v.applyFilter()
}

// SetFilter replaces the whole filter state.
func (v *AdminDashboard) SetFilter(f student.Filter) {
	v.Filter = f
	v.applyFilter()
}

func (v *AdminDashboard) find(id string) (student.Record, bool) {
	for _, rec := range v.all {
		if rec.ID == id {
			return rec, true
		}
	}
	return student.Record{}, false
}

// OpenEdit opens the edit form pre-populated from the record.
func (v *AdminDashboard) OpenEdit(id string) bool {
	v.trace("edit user", id)
	rec, ok := v.find(id)
	if !ok {
		v.page.notifyErr(errUpdateUser, student.ErrNotFound)
		return false
	}
	v.Editing = &EditState{ID: id, Form: student.FormFromRecord(rec)}
	return true
}

func (v *AdminDashboard) CancelEdit() {
	v.Editing = nil
}

// SubmitEdit validates the form and saves it; the form stays open on failure.
func (v *AdminDashboard) SubmitEdit(ctx context.Context, id string, form student.Form) bool {
	err := form.Validate(v.deps.Validate, v.deps.Translator) // cleans form
	v.Editing = &EditState{ID: id, Form: form}
	if err != nil {
		v.page.notifyErr(errUpdateUser, err)
		return false
	}

	fields := form.Fields()
	if err := v.deps.Records.UpdateByID(ctx, id, fields); err != nil {
		v.page.notifyErr(errUpdateUser, core.NewStoreError("update", err))
		return false
	}

	replace := func(recs []student.Record) {
		for i := range recs {
			if recs[i].ID == id {
				recs[i] = fields.Merge(recs[i])
			}
		}
	}
	replace(v.all)
	replace(v.Users)

	v.Editing = nil
	v.page.Notify(LevelSuccess, msgUserUpdated)
	return true
}

// Delete removes the record once confirm accepts DeletePrompt.
func (v *AdminDashboard) Delete(ctx context.Context, id string, confirm Confirmer) bool {
	v.trace("delete user", id)
	if confirm == nil || !confirm(DeletePrompt) {
		return false
	}
	if err := v.deps.Records.DeleteByID(ctx, id); err != nil {
		v.page.notifyErr(errDeleteUser, core.NewStoreError("delete", err))
		return false
	}

	remove := func(recs []student.Record) []student.Record {
		kept := make([]student.Record, 0, len(recs))
		for _, rec := range recs {
			if rec.ID != id {
				kept = append(kept, rec)
			}
		}
		return kept
	}
	v.all = remove(v.all)
	v.Users = remove(v.Users)
	if v.Editing != nil && v.Editing.ID == id {
		v.Editing = nil
	}

	v.page.Notify(LevelSuccess, msgUserDeleted)
	return true
}

// AddStudent validates the form and creates a record not linked to any account.
func (v *AdminDashboard) AddStudent(ctx context.Context, form student.Form) bool {
	if err := form.Validate(v.deps.Validate, v.deps.Translator); err != nil {
		v.page.notifyErr(errAddUser, err)
		return false
	}
	rec, err := v.deps.Records.Create(ctx, form.Record(""))
	if err != nil {
		v.page.notifyErr(errAddUser, core.NewStoreError("create", err))
		return false
	}
	v.all = append(v.all, rec)
	v.applyFilter()
	v.page.Notify(LevelSuccess, msgUserAdded)
	return true
}

func (v *AdminDashboard) Logout(ctx context.Context) {
	logout(ctx, v.gate, v.page)
}

func (v *AdminDashboard) trace(action, id string) {
	args := []interface{}{map[string]interface{}{"id": id}}
	if v.session != nil {
		args = append(args, v.session.Person())
	}
	v.deps.Logger.Debug(action, args...)
}
