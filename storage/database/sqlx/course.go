package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct{}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository() *courseRepository {
	return &courseRepository{}
}

const courseColumns = `id, title, slug, description, teacher_id, start_date, end_date, created_at`

func (repo courseRepository) CreateCourse(ctx context.Context, exec core.DBExecutor, crs course.Course) (course.Course, error) {
	q := `
INSERT INTO course (title, slug, description, teacher_id, start_date, end_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err := exec.QueryRowContext(
		ctx, q,
		crs.Title, crs.Slug, crs.Description, crs.TeacherID, crs.StartDate, crs.EndDate, crs.CreatedAt,
	).Scan(&crs.ID)
	return crs, errors.Wrap(err, "creating course")
}

func (repo courseRepository) getCourse(ctx context.Context, exec core.DBExecutor, where string, args ...interface{}) (course.Course, error) {
	var courses []course.Course
	if err := queryAll(ctx, exec, &courses, `SELECT `+courseColumns+` FROM course WHERE `+where+` LIMIT 1`, args...); err != nil {
		return course.Course{}, err
	}
	if len(courses) == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return courses[0], nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, exec core.DBExecutor, id int) (course.Course, error) {
	return repo.getCourse(ctx, exec, "id = $1", id)
}

func (repo courseRepository) GetCourseBySlug(ctx context.Context, exec core.DBExecutor, slug string) (course.Course, error) {
	return repo.getCourse(ctx, exec, "slug = $1", slug)
}

func (repo courseRepository) SlugExists(ctx context.Context, exec core.DBExecutor, slug string) (bool, error) {
	var exists bool
	err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM course WHERE slug = $1)`, slug).Scan(&exists)
	return exists, errors.Wrap(err, "checking slug")
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, exec core.DBExecutor, enr course.Enrollment) (course.Enrollment, error) {
	q := `
INSERT INTO enrollment (student_id, course_id, status, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := exec.QueryRowContext(ctx, q, enr.StudentID, enr.CourseID, enr.Status, enr.CreatedAt).Scan(&enr.ID)
	return enr, errors.Wrap(err, "creating enrollment")
}

func (repo courseRepository) GetEnrollment(ctx context.Context, exec core.DBExecutor, courseID, studentID int) (course.Enrollment, error) {
	var enrs []course.Enrollment
	q := `SELECT id, student_id, course_id, status, created_at FROM enrollment WHERE course_id = $1 AND student_id = $2 LIMIT 1`
	if err := queryAll(ctx, exec, &enrs, q, courseID, studentID); err != nil {
		return course.Enrollment{}, err
	}
	if len(enrs) == 0 {
		return course.Enrollment{}, course.ErrNotEnrolled
	}
	return enrs[0], nil
}

func (repo courseRepository) DeleteEnrollment(ctx context.Context, exec core.DBExecutor, courseID, studentID int) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM enrollment WHERE course_id = $1 AND student_id = $2`, courseID, studentID)
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotEnrolled
	}
	return nil
}

func (repo courseRepository) UpdateEnrollmentStatus(ctx context.Context, exec core.DBExecutor, courseID, studentID int, status course.EnrollmentStatus) error {
	res, err := exec.ExecContext(
		ctx, `UPDATE enrollment SET status = $3 WHERE course_id = $1 AND student_id = $2`,
		courseID, studentID, status,
	)
	if err != nil {
		return errors.Wrap(err, "updating enrollment status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotEnrolled
	}
	return nil
}

func (repo courseRepository) QueryActiveEnrollments(ctx context.Context, exec core.DBExecutor, courseID int) ([]course.Enrollment, error) {
	var enrs []course.Enrollment
	q := `SELECT id, student_id, course_id, status, created_at FROM enrollment WHERE course_id = $1 AND status = 'active' ORDER BY id`
	err := queryAll(ctx, exec, &enrs, q, courseID)
	return enrs, err
}

func (repo courseRepository) CreateMaterial(ctx context.Context, exec core.DBExecutor, mat course.Material) (course.Material, error) {
	q := `
INSERT INTO material (course_id, title, file_name, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := exec.QueryRowContext(ctx, q, mat.CourseID, mat.Title, mat.FileName, mat.CreatedAt).Scan(&mat.ID)
	return mat, errors.Wrap(err, "creating material")
}

func (repo courseRepository) QueryCourseMaterials(ctx context.Context, exec core.DBExecutor, courseID int) ([]course.Material, error) {
	var mats []course.Material
	q := `SELECT id, course_id, title, file_name, created_at FROM material WHERE course_id = $1 ORDER BY created_at DESC, id DESC`
	err := queryAll(ctx, exec, &mats, q, courseID)
	return mats, err
}

func (repo courseRepository) CreateFeedback(ctx context.Context, exec core.DBExecutor, fb course.Feedback) (course.Feedback, error) {
	q := `
INSERT INTO feedback (course_id, student_id, rating, comment, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := exec.QueryRowContext(ctx, q, fb.CourseID, fb.StudentID, fb.Rating, fb.Comment, fb.CreatedAt).Scan(&fb.ID)
	return fb, errors.Wrap(err, "creating feedback")
}

func (repo courseRepository) FeedbackExists(ctx context.Context, exec core.DBExecutor, courseID, studentID int) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM feedback WHERE course_id = $1 AND student_id = $2)`
	err := exec.QueryRowContext(ctx, q, courseID, studentID).Scan(&exists)
	return exists, errors.Wrap(err, "checking feedback")
}
