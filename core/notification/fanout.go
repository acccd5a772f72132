package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

// EnrollmentLister is the slice of the course repository the fan-out engine
// needs to resolve NEW_MATERIAL recipients at commit time.
type EnrollmentLister interface {
	QueryActiveEnrollments(ctx context.Context, exec core.DBExecutor, courseID int) ([]course.Enrollment, error)
}

// Engine materializes per-recipient notifications from course domain events.
//
// Side effects are registered on the triggering transaction's post-commit
// queue: they run only if the transaction commits, and see committed data.
// They are best-effort; failures are logged and never propagated back to
// the triggering action.
type Engine struct {
	db          core.DB
	repo        Repository
	enrollments EnrollmentLister
	logger      core.Logger
}

var _ course.Notifier = (*Engine)(nil)

func NewEngine(db core.DB, repo Repository, enrollments EnrollmentLister, logger core.Logger) *Engine {
	return &Engine{db: db, repo: repo, enrollments: enrollments, logger: logger}
}

// EnrollmentCreated notifies the course's teacher of a new active enrollment.
func (e *Engine) EnrollmentCreated(_ context.Context, tx *core.Tx, crs course.Course, student user.User) {
	tx.AfterCommit(func() {
		// the request context may be gone by commit time
		ctx := context.Background()
		_, err := e.repo.CreateNotification(ctx, e.db, Notification{
			RecipientID: crs.TeacherID,
			Type:        TypeEnrolment,
			Payload: Payload{
				"course":      crs.Title,
				"course_slug": crs.Slug,
				"student":     student.Username,
			},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			e.logger.Error(fmt.Sprintf("notifying teacher of enrollment on course %q: %v", crs.Slug, err), err)
		}
	})
}

// MaterialCreated notifies every actively enrolled student of new material.
// Recipients are resolved after commit so the enrollment set reflects
// committed data; the insert is a single batched statement.
func (e *Engine) MaterialCreated(_ context.Context, tx *core.Tx, crs course.Course, mat course.Material) {
	tx.AfterCommit(func() {
		ctx := context.Background()
		enrs, err := e.enrollments.QueryActiveEnrollments(ctx, e.db, crs.ID)
		if err != nil {
			e.logger.Error(fmt.Sprintf("resolving recipients for material %q: %v", mat.Title, err), err)
			return
		}
		if len(enrs) == 0 {
			return
		}

		now := time.Now().UTC()
		ns := make([]Notification, 0, len(enrs))
		for _, enr := range enrs {
			ns = append(ns, Notification{
				RecipientID: enr.StudentID,
				Type:        TypeNewMaterial,
				Payload: Payload{
					"course":         crs.Title,
					"course_slug":    crs.Slug,
					"material_title": mat.Title,
					"material_id":    mat.ID,
				},
				CreatedAt: now,
			})
		}
		if err = e.repo.BulkCreateNotifications(ctx, e.db, ns); err != nil {
			e.logger.Error(fmt.Sprintf("notifying students of material %q: %v", mat.Title, err), err)
		}
	})
}

// StudentRemoved notifies the removed student.
func (e *Engine) StudentRemoved(_ context.Context, tx *core.Tx, crs course.Course, student, teacher user.User) {
	tx.AfterCommit(func() {
		ctx := context.Background()
		_, err := e.repo.CreateNotification(ctx, e.db, Notification{
			RecipientID: student.ID,
			Type:        TypeRemoved,
			Payload: Payload{
				"course_id":        crs.ID,
				"course_title":     crs.Title,
				"teacher_username": teacher.Username,
			},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			e.logger.Error(fmt.Sprintf("notifying student %q of removal from course %q: %v", student.Username, crs.Slug, err), err)
		}
	})
}
