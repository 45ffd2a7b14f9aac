package student

import (
	"context"
	"strings"

	"github.com/Mohan-b-dev/std-dash/core"
)

// Collection is the name of the record collection in the document store.
const Collection = "users"

// AllCourses is the filter sentinel matching every course.
const AllCourses = "All Courses"

// Courses is the closed enumeration of courses; the first one is the form default.
var Courses = []string{"Solana", "Full Stack", "Front-end", "Back-end"}

// record fields
const (
	FieldUID        = "uid"
	FieldName       = "name"
	FieldEmail      = "email"
	FieldDegree     = "degree"
	FieldDepartment = "department"
	FieldYear       = "year"
	FieldCourse     = "course"
)

var (
	// errors
	ErrNotFound     = core.NewNotFoundError("student record not found")
	ErrUnknownField = core.NewValidationError(nil, core.FieldError{Field: "field", Error: "unknown record field"})
)

// Record is a student profile document.
type Record struct {
	ID         string `json:"id" firestore:"-"`
	UID        string `json:"uid" firestore:"uid"`
	Name       string `json:"name" firestore:"name"`
	Email      string `json:"email" firestore:"email"`
	Degree     string `json:"degree" firestore:"degree"`
	Department string `json:"department" firestore:"department"`
	Year       string `json:"year" firestore:"year"`
	Course     string `json:"course" firestore:"course"`
}

// Fields is a partial record payload keyed by field name.
type Fields map[string]string

// Valid reports whether every key is a known, writable record field.
func (f Fields) Valid() bool {
	for k := range f {
		if !IsField(k) {
			return false
		}
	}
	return true
}

// Merge returns rec with f applied.
func (f Fields) Merge(rec Record) Record {
	for k, v := range f {
		switch k {
		case FieldUID:
			rec.UID = v
		case FieldName:
			rec.Name = v
		case FieldEmail:
			rec.Email = v
		case FieldDegree:
			rec.Degree = v
		case FieldDepartment:
			rec.Department = v
		case FieldYear:
			rec.Year = v
		case FieldCourse:
			rec.Course = v
		}
	}
	return rec
}

func IsField(name string) bool {
	switch name {
	case FieldUID, FieldName, FieldEmail, FieldDegree, FieldDepartment, FieldYear, FieldCourse:
		return true
	}
	return false
}

// Value returns the value of the named field.
func (r Record) Value(field string) string {
	switch field {
	case FieldUID:
		return r.UID
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldDegree:
		return r.Degree
	case FieldDepartment:
		return r.Department
	case FieldYear:
		return r.Year
	case FieldCourse:
		return r.Course
	}
	return ""
}

func IsCourse(course string) bool {
	for _, c := range Courses {
		if c == course {
			return true
		}
	}
	return false
}

// Repository is the Record Store bound to one collection.
// Implementations return ErrNotFound for unknown ids.
type Repository interface {
	ListAll(ctx context.Context) ([]Record, error)
	// QueryByField returns the records whose field equals value exactly.
	QueryByField(ctx context.Context, field, value string) ([]Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	UpdateByID(ctx context.Context, id string, fields Fields) error
	DeleteByID(ctx context.Context, id string) error
}

// Filter holds the admin dashboard filter state.
type Filter struct {
	NameQuery      string `json:"name"`
	SelectedCourse string `json:"course"`
}

// Apply returns the records matching f, in their original order.
// A blank name query and an empty or "All Courses" selection match everything.
func (f Filter) Apply(records []Record) []Record {
	filtered := make([]Record, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func (f Filter) Match(rec Record) bool {
	if strings.TrimSpace(f.NameQuery) != "" &&
		!strings.Contains(strings.ToLower(rec.Name), strings.ToLower(f.NameQuery)) {
		return false
	}
	if f.SelectedCourse != "" && f.SelectedCourse != AllCourses && rec.Course != f.SelectedCourse {
		return false
	}
	return true
}
