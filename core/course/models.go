package course

import (
	"regexp"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// EnrollmentStatus tracks a student's standing on a course.
type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
	EnrollmentBlocked EnrollmentStatus = "blocked"
)

type Course struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	TeacherID   int       `db:"teacher_id" json:"teacher_id"`
	StartDate   null.Time `db:"start_date" json:"start_date"`
	EndDate     null.Time `db:"end_date" json:"end_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"` // UTC
}

type Enrollment struct {
	ID        int              `db:"id" json:"id"`
	StudentID int              `db:"student_id" json:"student_id"`
	CourseID  int              `db:"course_id" json:"course_id"`
	Status    EnrollmentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"` // UTC
}

type Material struct {
	ID        int       `db:"id" json:"id"`
	CourseID  int       `db:"course_id" json:"course_id"`
	Title     string    `db:"title" json:"title"`
	FileName  string    `db:"file_name" json:"file_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
}

type Feedback struct {
	ID        int       `db:"id" json:"id"`
	CourseID  int       `db:"course_id" json:"course_id"`
	StudentID int       `db:"student_id" json:"student_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	StartDate   null.Time `json:"start_date"`
	EndDate     null.Time `json:"end_date"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// NewMaterial contains information needed to attach a Material to a Course.
type NewMaterial struct {
	Title    string `json:"title" validate:"max=200"`
	FileName string `json:"file_name" validate:"required"`
}

func (nm *NewMaterial) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	nm.FileName = core.CleanString(nm.FileName)
	if err := core.Validate.Struct(nm); err != nil {
		return err
	}
	if nm.Title == "" {
		nm.Title = nm.FileName
	}
	return nil
}

// NewFeedback contains a student's rating of a Course.
type NewFeedback struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (nf *NewFeedback) Validate() error {
	nf.Comment = core.CleanString(nf.Comment)
	return core.Validate.Struct(nf)
}

var nonSlugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a course title.
func Slugify(title string) string {
	slug := nonSlugRegex.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "course"
	}
	return slug
}
