package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/chat"
	"github.com/trezcool/darasa/core/user"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

func TestService_saveAndHistory(t *testing.T) {
	db, _ := dummydb.Open()
	svc := chat.NewService(db, dummydb.NewChatRepository(db))
	usrRepo := dummydb.NewUserRepository(db)
	ctx := context.Background()

	kim := testutil.CreateUser(t, usrRepo, db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)
	joe := testutil.CreateUser(t, usrRepo, db, "Joe", "joe", "joe@test.cd", "", user.RoleStudent, true)
	ana := testutil.CreateUser(t, usrRepo, db, "Ana", "ana", "ana@test.cd", "", user.RoleStudent, true)

	m1, err := svc.Save(ctx, kim, joe, "hey joe")
	assert.NoError(t, err)
	assert.NotZero(t, m1.ID)
	assert.Equal(t, "kim", m1.Sender)
	assert.Equal(t, "joe", m1.Receiver)

	m2, err := svc.Save(ctx, joe, kim, "hey kim")
	assert.NoError(t, err)

	// a different conversation stays out of kim<->joe history
	_, err = svc.Save(ctx, kim, ana, "hi ana")
	assert.NoError(t, err)

	msgs, err := svc.History(ctx, kim, joe)
	assert.NoError(t, err)
	if assert.Len(t, msgs, 2) {
		// oldest first
		assert.Equal(t, m1.ID, msgs[0].ID)
		assert.Equal(t, m2.ID, msgs[1].ID)
	}

	// symmetric
	reversed, err := svc.History(ctx, joe, kim)
	assert.NoError(t, err)
	assert.Equal(t, msgs, reversed)
}
