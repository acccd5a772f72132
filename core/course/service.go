package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("course not found")
	ErrNotEnrolled     = errors.New("student is not enrolled in this course")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
	ErrFeedbackExists  = errors.New("feedback already left for this course")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, exec core.DBExecutor, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, exec core.DBExecutor, id int) (Course, error)
		GetCourseBySlug(ctx context.Context, exec core.DBExecutor, slug string) (Course, error)
		SlugExists(ctx context.Context, exec core.DBExecutor, slug string) (bool, error)

		CreateEnrollment(ctx context.Context, exec core.DBExecutor, enr Enrollment) (Enrollment, error)
		GetEnrollment(ctx context.Context, exec core.DBExecutor, courseID, studentID int) (Enrollment, error)
		DeleteEnrollment(ctx context.Context, exec core.DBExecutor, courseID, studentID int) error
		UpdateEnrollmentStatus(ctx context.Context, exec core.DBExecutor, courseID, studentID int, status EnrollmentStatus) error
		// QueryActiveEnrollments returns all enrollments on a course with status "active".
		QueryActiveEnrollments(ctx context.Context, exec core.DBExecutor, courseID int) ([]Enrollment, error)

		CreateMaterial(ctx context.Context, exec core.DBExecutor, mat Material) (Material, error)
		QueryCourseMaterials(ctx context.Context, exec core.DBExecutor, courseID int) ([]Material, error)

		CreateFeedback(ctx context.Context, exec core.DBExecutor, fb Feedback) (Feedback, error)
		FeedbackExists(ctx context.Context, exec core.DBExecutor, courseID, studentID int) (bool, error)
	}

	// Notifier observes course domain events. Implementations register their
	// side effects on the transaction's post-commit queue; they must never
	// fail the triggering action.
	Notifier interface {
		EnrollmentCreated(ctx context.Context, tx *core.Tx, crs Course, student user.User)
		MaterialCreated(ctx context.Context, tx *core.Tx, crs Course, mat Material)
		StudentRemoved(ctx context.Context, tx *core.Tx, crs Course, student, teacher user.User)
	}

	Service struct {
		db       core.DB
		repo     Repository
		notifier Notifier
	}
)

func NewService(db core.DB, repo Repository, notifier Notifier) *Service {
	return &Service{db: db, repo: repo, notifier: notifier}
}

func (svc *Service) Create(ctx context.Context, teacher user.User, nc NewCourse) (Course, error) {
	if !teacher.IsTeacher() {
		return Course{}, core.ErrPermissionDenied
	}
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}

	slug, err := svc.uniqueSlug(ctx, nc.Title)
	if err != nil {
		return Course{}, err
	}
	crs := Course{
		Title:       nc.Title,
		Slug:        slug,
		Description: nc.Description,
		TeacherID:   teacher.ID,
		StartDate:   nc.StartDate,
		EndDate:     nc.EndDate,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateCourse(ctx, svc.db, crs)
}

// uniqueSlug derives a slug from the title, suffixing a counter on collision.
func (svc *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	slug := base
	for i := 2; ; i++ {
		exists, err := svc.repo.SlugExists(ctx, svc.db, slug)
		if err != nil {
			return "", pkgerrors.Wrap(err, "checking slug uniqueness")
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (svc *Service) GetByID(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, svc.db, id)
}

func (svc *Service) GetBySlug(ctx context.Context, slug string) (Course, error) {
	return svc.repo.GetCourseBySlug(ctx, svc.db, core.CleanString(slug, true /* lower */))
}

// Enroll creates an active enrollment for the student and notifies
// the course's teacher once the enrollment commits.
func (svc *Service) Enroll(ctx context.Context, crs Course, student user.User) (Enrollment, error) {
	if !student.IsStudent() {
		return Enrollment{}, core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetEnrollment(ctx, svc.db, crs.ID, student.ID); err == nil {
		return Enrollment{}, ErrAlreadyEnrolled
	} else if err != ErrNotEnrolled {
		return Enrollment{}, err
	}

	enr := Enrollment{
		StudentID: student.ID,
		CourseID:  crs.ID,
		Status:    EnrollmentActive,
		CreatedAt: time.Now().UTC(),
	}
	err := core.Atomic(ctx, svc.db, func(tx *core.Tx) error {
		var err error
		if enr, err = svc.repo.CreateEnrollment(ctx, tx, enr); err != nil {
			return err
		}
		if enr.Status == EnrollmentActive {
			svc.notifier.EnrollmentCreated(ctx, tx, crs, student)
		}
		return nil
	})
	if err != nil {
		return Enrollment{}, err
	}
	return enr, nil
}

func (svc *Service) Unenroll(ctx context.Context, crs Course, student user.User) error {
	return svc.repo.DeleteEnrollment(ctx, svc.db, crs.ID, student.ID)
}

// AddMaterial attaches a new material to the course and notifies every
// actively enrolled student once the material commits.
func (svc *Service) AddMaterial(ctx context.Context, crs Course, teacher user.User, nm NewMaterial) (Material, error) {
	if crs.TeacherID != teacher.ID {
		return Material{}, core.ErrPermissionDenied
	}
	if err := nm.Validate(); err != nil {
		return Material{}, err
	}

	mat := Material{
		CourseID:  crs.ID,
		Title:     nm.Title,
		FileName:  nm.FileName,
		CreatedAt: time.Now().UTC(),
	}
	err := core.Atomic(ctx, svc.db, func(tx *core.Tx) error {
		var err error
		if mat, err = svc.repo.CreateMaterial(ctx, tx, mat); err != nil {
			return err
		}
		svc.notifier.MaterialCreated(ctx, tx, crs, mat)
		return nil
	})
	if err != nil {
		return Material{}, err
	}
	return mat, nil
}

func (svc *Service) QueryMaterials(ctx context.Context, crs Course) ([]Material, error) {
	return svc.repo.QueryCourseMaterials(ctx, svc.db, crs.ID)
}

// RemoveStudent drops a student's enrollment on behalf of the course's
// teacher and notifies the removed student once the removal commits.
func (svc *Service) RemoveStudent(ctx context.Context, crs Course, student, teacher user.User) error {
	if crs.TeacherID != teacher.ID {
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetEnrollment(ctx, svc.db, crs.ID, student.ID); err != nil {
		return err
	}
	return core.Atomic(ctx, svc.db, func(tx *core.Tx) error {
		if err := svc.repo.DeleteEnrollment(ctx, tx, crs.ID, student.ID); err != nil {
			return err
		}
		svc.notifier.StudentRemoved(ctx, tx, crs, student, teacher)
		return nil
	})
}

// SetEnrollmentStatus transitions a student's enrollment (block/unblock/drop).
func (svc *Service) SetEnrollmentStatus(ctx context.Context, crs Course, student user.User, teacher user.User, status EnrollmentStatus) error {
	if crs.TeacherID != teacher.ID {
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetEnrollment(ctx, svc.db, crs.ID, student.ID); err != nil {
		return err
	}
	return svc.repo.UpdateEnrollmentStatus(ctx, svc.db, crs.ID, student.ID, status)
}

// AddFeedback records a student's one-time rating of a course.
func (svc *Service) AddFeedback(ctx context.Context, crs Course, student user.User, nf NewFeedback) (Feedback, error) {
	if !student.IsStudent() {
		return Feedback{}, core.ErrPermissionDenied
	}
	if err := nf.Validate(); err != nil {
		return Feedback{}, err
	}
	if _, err := svc.repo.GetEnrollment(ctx, svc.db, crs.ID, student.ID); err != nil {
		return Feedback{}, err
	}
	exists, err := svc.repo.FeedbackExists(ctx, svc.db, crs.ID, student.ID)
	if err != nil {
		return Feedback{}, err
	}
	if exists {
		return Feedback{}, core.NewValidationError(ErrFeedbackExists)
	}

	fb := Feedback{
		CourseID:  crs.ID,
		StudentID: student.ID,
		Rating:    nf.Rating,
		Comment:   nf.Comment,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateFeedback(ctx, svc.db, fb)
}
