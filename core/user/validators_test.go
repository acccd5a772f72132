package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

func newUserSvc(t *testing.T) (*user.Service, *dummydb.DB) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	conf := testutil.NewConfig()
	svc := user.NewService(db, dummydb.NewUserRepository(db), emailsvc.NewConsoleServiceMock(conf), conf)
	return svc, db
}

func TestNewUser_validate(t *testing.T) {
	svc, db := newUserSvc(t)
	ctx := context.Background()

	testutil.CreateUser(t, dummydb.NewUserRepository(db), db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)

	valid := func() user.NewUser {
		return user.NewUser{
			Name:            "Joe Soap",
			Username:        "joe",
			Email:           "joe@test.cd",
			Role:            user.RoleStudent,
			Password:        "v3ry.s3cret",
			PasswordConfirm: "v3ry.s3cret",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*user.NewUser)
		wantErr bool
	}{
		{name: "valid", mutate: func(*user.NewUser) {}},
		{name: "defaults to student role", mutate: func(nu *user.NewUser) { nu.Role = "" }},
		{name: "invalid role", mutate: func(nu *user.NewUser) { nu.Role = "janitor" }, wantErr: true},
		{name: "missing username", mutate: func(nu *user.NewUser) { nu.Username = "" }, wantErr: true},
		{name: "bad email", mutate: func(nu *user.NewUser) { nu.Email = "nope" }, wantErr: true},
		{name: "password mismatch", mutate: func(nu *user.NewUser) { nu.PasswordConfirm = "other.s3cret" }, wantErr: true},
		{name: "password too short", mutate: func(nu *user.NewUser) { nu.Password = "short1"; nu.PasswordConfirm = "short1" }, wantErr: true},
		{name: "password all numeric", mutate: func(nu *user.NewUser) { nu.Password = "12345678901"; nu.PasswordConfirm = "12345678901" }, wantErr: true},
		{name: "password has whitespace", mutate: func(nu *user.NewUser) { nu.Password = "v3ry s3cret"; nu.PasswordConfirm = "v3ry s3cret" }, wantErr: true},
		{name: "password similar to email", mutate: func(nu *user.NewUser) { nu.Password = "joe@test.cd"; nu.PasswordConfirm = "joe@test.cd" }, wantErr: true},
		{name: "username taken", mutate: func(nu *user.NewUser) { nu.Username = "kim" }, wantErr: true},
		{name: "email taken", mutate: func(nu *user.NewUser) { nu.Email = "kim@test.cd" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid()
			tt.mutate(&nu)
			err := nu.Validate(ctx, svc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_checkUniquenessFlagsField(t *testing.T) {
	svc, db := newUserSvc(t)
	ctx := context.Background()

	testutil.CreateUser(t, dummydb.NewUserRepository(db), db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)

	err := svc.CheckUniqueness(ctx, "kim", "other@test.cd")
	verr, ok := err.(*core.ValidationError)
	if assert.True(t, ok, "expected *core.ValidationError, got %T", err) {
		assert.Equal(t, "username", verr.Fields[0].Field)
	}

	err = svc.CheckUniqueness(ctx, "other", "kim@test.cd")
	verr, ok = err.(*core.ValidationError)
	if assert.True(t, ok, "expected *core.ValidationError, got %T", err) {
		assert.Equal(t, "email", verr.Fields[0].Field)
	}
}

func TestNewUser_validateNormalizes(t *testing.T) {
	svc, _ := newUserSvc(t)

	nu := user.NewUser{
		Name:            "  Joe Soap ",
		Username:        " JOE ",
		Email:           " JOE@Test.CD ",
		Password:        "v3ry.s3cret",
		PasswordConfirm: "v3ry.s3cret",
	}
	assert.NoError(t, nu.Validate(context.Background(), svc))
	assert.Equal(t, "Joe Soap", nu.Name)
	assert.Equal(t, "joe", nu.Username)
	assert.Equal(t, "joe@test.cd", nu.Email)
	assert.Equal(t, user.RoleStudent, nu.Role)
}

func TestService_createSendsWelcomeEmail(t *testing.T) {
	svc, _ := newUserSvc(t)

	before := len(emailsvc.SentMessages)
	usr, err := svc.Create(context.Background(), user.NewUser{
		Name:            "Joe Soap",
		Username:        "joe",
		Email:           "joe@test.cd",
		Role:            user.RoleStudent,
		Password:        "v3ry.s3cret",
		PasswordConfirm: "v3ry.s3cret",
	})
	assert.NoError(t, err)
	assert.NotZero(t, usr.ID)
	assert.True(t, usr.IsActive)

	if assert.Len(t, emailsvc.SentMessages, before+1) {
		msg := emailsvc.SentMessages[before]
		assert.Equal(t, "Welcome!", msg.Subject)
		assert.Equal(t, "joe@test.cd", msg.To[0].Address)
	}
}
