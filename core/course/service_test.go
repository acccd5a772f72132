package course_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

// nopNotifier satisfies course.Notifier without side effects.
type nopNotifier struct{}

func (nopNotifier) EnrollmentCreated(context.Context, *core.Tx, course.Course, user.User) {}
func (nopNotifier) MaterialCreated(context.Context, *core.Tx, course.Course, course.Material) {}
func (nopNotifier) StudentRemoved(context.Context, *core.Tx, course.Course, user.User, user.User) {}

type fixture struct {
	db      *dummydb.DB
	repo    course.Repository
	usrRepo user.Repository
	svc     *course.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	repo := dummydb.NewCourseRepository(db)
	return &fixture{
		db:      db,
		repo:    repo,
		usrRepo: dummydb.NewUserRepository(db),
		svc:     course.NewService(db, repo, nopNotifier{}),
	}
}

func TestService_createDeduplicatesSlugs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, f.usrRepo, f.db, "Ms Jones", "jones", "jones@test.cd", "", user.RoleTeacher, true)

	c1, err := f.svc.Create(ctx, teacher, course.NewCourse{Title: "Algebra I"})
	assert.NoError(t, err)
	assert.Equal(t, "algebra-i", c1.Slug)

	c2, err := f.svc.Create(ctx, teacher, course.NewCourse{Title: "Algebra I"})
	assert.NoError(t, err)
	assert.Equal(t, "algebra-i-2", c2.Slug)

	c3, err := f.svc.Create(ctx, teacher, course.NewCourse{Title: "Algebra I"})
	assert.NoError(t, err)
	assert.Equal(t, "algebra-i-3", c3.Slug)
}

func TestService_createRequiresTeacher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kim := testutil.CreateUser(t, f.usrRepo, f.db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)

	_, err := f.svc.Create(ctx, kim, course.NewCourse{Title: "Algebra I"})
	assert.Equal(t, core.ErrPermissionDenied, err)
}

func TestService_enroll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, f.usrRepo, f.db, "Ms Jones", "jones", "jones@test.cd", "", user.RoleTeacher, true)
	kim := testutil.CreateUser(t, f.usrRepo, f.db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, f.repo, f.db, "Algebra I", teacher)

	enr, err := f.svc.Enroll(ctx, crs, kim)
	assert.NoError(t, err)
	assert.Equal(t, course.EnrollmentActive, enr.Status)

	// twice is an error
	_, err = f.svc.Enroll(ctx, crs, kim)
	assert.Equal(t, course.ErrAlreadyEnrolled, err)

	// teachers cannot enroll
	_, err = f.svc.Enroll(ctx, crs, teacher)
	assert.Equal(t, core.ErrPermissionDenied, err)
}

func TestService_removeStudentRequiresOwningTeacher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, f.usrRepo, f.db, "Ms Jones", "jones", "jones@test.cd", "", user.RoleTeacher, true)
	intruder := testutil.CreateUser(t, f.usrRepo, f.db, "Mr Smith", "smith", "smith@test.cd", "", user.RoleTeacher, true)
	kim := testutil.CreateUser(t, f.usrRepo, f.db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, f.repo, f.db, "Algebra I", teacher)
	testutil.CreateEnrollment(t, f.repo, f.db, crs, kim, course.EnrollmentActive)

	assert.Equal(t, core.ErrPermissionDenied, f.svc.RemoveStudent(ctx, crs, kim, intruder))
	assert.NoError(t, f.svc.RemoveStudent(ctx, crs, kim, teacher))

	// the enrollment is gone
	assert.Equal(t, course.ErrNotEnrolled, f.svc.RemoveStudent(ctx, crs, kim, teacher))
}

func TestService_setEnrollmentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, f.usrRepo, f.db, "Ms Jones", "jones", "jones@test.cd", "", user.RoleTeacher, true)
	kim := testutil.CreateUser(t, f.usrRepo, f.db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, f.repo, f.db, "Algebra I", teacher)
	testutil.CreateEnrollment(t, f.repo, f.db, crs, kim, course.EnrollmentActive)

	assert.NoError(t, f.svc.SetEnrollmentStatus(ctx, crs, kim, teacher, course.EnrollmentBlocked))

	enr, err := f.repo.GetEnrollment(ctx, f.db, crs.ID, kim.ID)
	assert.NoError(t, err)
	assert.Equal(t, course.EnrollmentBlocked, enr.Status)

	// blocked students are excluded from the active set
	enrs, err := f.repo.QueryActiveEnrollments(ctx, f.db, crs.ID)
	assert.NoError(t, err)
	assert.Empty(t, enrs)
}

func TestService_addFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, f.usrRepo, f.db, "Ms Jones", "jones", "jones@test.cd", "", user.RoleTeacher, true)
	kim := testutil.CreateUser(t, f.usrRepo, f.db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)
	joe := testutil.CreateUser(t, f.usrRepo, f.db, "Joe", "joe", "joe@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, f.repo, f.db, "Algebra I", teacher)
	testutil.CreateEnrollment(t, f.repo, f.db, crs, kim, course.EnrollmentActive)

	fb, err := f.svc.AddFeedback(ctx, crs, kim, course.NewFeedback{Rating: 5, Comment: "great"})
	assert.NoError(t, err)
	assert.NotZero(t, fb.ID)

	// one feedback per student per course
	_, err = f.svc.AddFeedback(ctx, crs, kim, course.NewFeedback{Rating: 4})
	assert.Error(t, err)

	// must be enrolled
	_, err = f.svc.AddFeedback(ctx, crs, joe, course.NewFeedback{Rating: 3})
	assert.Equal(t, course.ErrNotEnrolled, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "algebra-i", course.Slugify("Algebra I"))
	assert.Equal(t, "intro-to-go-2024", course.Slugify("  Intro to Go!  (2024) "))
	assert.Equal(t, "course", course.Slugify("!!!"))
}
