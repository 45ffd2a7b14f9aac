package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Mohan-b-dev/std-dash/core"
)

const (
	courseTag  = "course"
	courseText = "select one of the listed courses"
)

// Form is the editable projection of a Record, used by the add and edit forms.
type Form struct {
	Name       string `json:"name" validate:"notblank"`
	Email      string `json:"email" validate:"required,email"`
	Degree     string `json:"degree" validate:"notblank"`
	Department string `json:"department" validate:"notblank"`
	Year       string `json:"year" validate:"notblank"`
	Course     string `json:"course" validate:"required,course"`
}

// FormFromRecord pre-populates a Form; an unknown course falls back to the first course.
func FormFromRecord(rec Record) Form {
	course := rec.Course
	if !IsCourse(course) {
		course = Courses[0]
	}
	return Form{
		Name:       rec.Name,
		Email:      rec.Email,
		Degree:     rec.Degree,
		Department: rec.Department,
		Year:       rec.Year,
		Course:     course,
	}
}

func (f *Form) Clean() {
	f.Name = core.CleanString(f.Name)
	f.Email = core.CleanString(f.Email, true /* lower */)
	f.Degree = core.CleanString(f.Degree)
	f.Department = core.CleanString(f.Department)
	f.Year = core.CleanString(f.Year)
	f.Course = core.CleanString(f.Course)
}

// Validate cleans the form and checks it against the registered rules.
func (f *Form) Validate(validate *validator.Validate, translator ut.Translator) error {
	f.Clean()
	if err := validate.Struct(f); err != nil {
		return core.TranslateValidationErrors(err, translator)
	}
	return nil
}

// Fields returns the full form payload.
func (f Form) Fields() Fields {
	return Fields{
		FieldName:       f.Name,
		FieldEmail:      f.Email,
		FieldDegree:     f.Degree,
		FieldDepartment: f.Department,
		FieldYear:       f.Year,
		FieldCourse:     f.Course,
	}
}

// Record returns a new record owned by uid.
func (f Form) Record(uid string) Record {
	return Record{
		UID:        uid,
		Name:       f.Name,
		Email:      f.Email,
		Degree:     f.Degree,
		Department: f.Department,
		Year:       f.Year,
		Course:     f.Course,
	}
}

// InitValidators registers the course membership rule on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(courseTag, func(fl validator.FieldLevel) bool {
		return IsCourse(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, courseTag, courseText)
}
