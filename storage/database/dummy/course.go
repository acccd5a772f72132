package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) CreateCourse(_ context.Context, _ core.DBExecutor, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.courseSeq++
	crs.ID = repo.db.courseSeq
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, _ core.DBExecutor, id int) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) GetCourseBySlug(_ context.Context, _ core.DBExecutor, slug string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.db.courses {
		if crs.Slug == slug {
			return *crs, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) SlugExists(_ context.Context, _ core.DBExecutor, slug string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.db.courses {
		if crs.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (repo *courseRepository) CreateEnrollment(_ context.Context, _ core.DBExecutor, enr course.Enrollment) (course.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.enrollmentSeq++
	enr.ID = repo.db.enrollmentSeq
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *courseRepository) GetEnrollment(_ context.Context, _ core.DBExecutor, courseID, studentID int) (course.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID && enr.StudentID == studentID {
			return *enr, nil
		}
	}
	return course.Enrollment{}, course.ErrNotEnrolled
}

func (repo *courseRepository) DeleteEnrollment(_ context.Context, _ core.DBExecutor, courseID, studentID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, enr := range repo.db.enrollments {
		if enr.CourseID == courseID && enr.StudentID == studentID {
			delete(repo.db.enrollments, id)
			return nil
		}
	}
	return course.ErrNotEnrolled
}

func (repo *courseRepository) UpdateEnrollmentStatus(_ context.Context, _ core.DBExecutor, courseID, studentID int, status course.EnrollmentStatus) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID && enr.StudentID == studentID {
			enr.Status = status
			return nil
		}
	}
	return course.ErrNotEnrolled
}

func (repo *courseRepository) QueryActiveEnrollments(_ context.Context, _ core.DBExecutor, courseID int) ([]course.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrs := make([]course.Enrollment, 0)
	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID && enr.Status == course.EnrollmentActive {
			enrs = append(enrs, *enr)
		}
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].ID < enrs[j].ID })
	return enrs, nil
}

func (repo *courseRepository) CreateMaterial(_ context.Context, _ core.DBExecutor, mat course.Material) (course.Material, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.materialSeq++
	mat.ID = repo.db.materialSeq
	repo.db.materials[mat.ID] = &mat
	return mat, nil
}

func (repo *courseRepository) QueryCourseMaterials(_ context.Context, _ core.DBExecutor, courseID int) ([]course.Material, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	mats := make([]course.Material, 0)
	for _, mat := range repo.db.materials {
		if mat.CourseID == courseID {
			mats = append(mats, *mat)
		}
	}
	sort.Slice(mats, func(i, j int) bool { return mats[i].ID > mats[j].ID })
	return mats, nil
}

func (repo *courseRepository) CreateFeedback(_ context.Context, _ core.DBExecutor, fb course.Feedback) (course.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.feedbackSeq++
	fb.ID = repo.db.feedbackSeq
	repo.db.feedbacks[fb.ID] = &fb
	return fb, nil
}

func (repo *courseRepository) FeedbackExists(_ context.Context, _ core.DBExecutor, courseID, studentID int) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, fb := range repo.db.feedbacks {
		if fb.CourseID == courseID && fb.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}
