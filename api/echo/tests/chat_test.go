package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trezcool/darasa/core/chat"
	"github.com/trezcool/darasa/core/user"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_chatApi_history(t *testing.T) {
	ta := setup(t)
	ctx := context.Background()

	kim := testutil.CreateUser(t, ta.usrRepo, ta.db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)
	joe := testutil.CreateUser(t, ta.usrRepo, ta.db, "Joe", "joe", "joe@test.cd", "", user.RoleStudent, true)
	ana := testutil.CreateUser(t, ta.usrRepo, ta.db, "Ana", "ana", "ana@test.cd", "", user.RoleStudent, true)

	m1, err := ta.chatSvc.Save(ctx, kim, joe, "hey joe")
	if err != nil {
		t.Fatalf("Save(): %v", err)
	}
	m2, err := ta.chatSvc.Save(ctx, joe, kim, "hey kim")
	if err != nil {
		t.Fatalf("Save(): %v", err)
	}
	if _, err = ta.chatSvc.Save(ctx, kim, ana, "hi ana"); err != nil {
		t.Fatalf("Save(): %v", err)
	}

	t.Run("unauthenticated", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/chat/joe/history")
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("unknown user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/chat/ghost/history", getToken(t, ta, kim))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "user not found"})}, rec)
	})

	t.Run("conversation, oldest first", func(t *testing.T) {
		want := marchallObj(t, map[string][]chat.ChatMessage{"messages": {m1, m2}})

		req, rec := newAuthRequest(http.MethodGet, "/v1/chat/joe/history", getToken(t, ta, kim))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: want}, rec)

		// same conversation from the other side
		req, rec = newAuthRequest(http.MethodGet, "/v1/chat/kim/history", getToken(t, ta, joe))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: want}, rec)
	})
}

func dialChat(t *testing.T, srvURL, username, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srvURL, "http") + "/ws/chat/" + username + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%v): %v", url, err)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) chat.Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt chat.Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("ReadJSON(): %v", err)
	}
	return evt
}

func waitForRoom(t *testing.T, ta *testApp, room string, size int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for ta.hub.RoomSize(room) != size && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := ta.hub.RoomSize(room); got != size {
		t.Fatalf("waitForRoom(): size = %v; want %v", got, size)
	}
}

func Test_chatApi_websocket(t *testing.T) {
	ta := setup(t)

	kim := testutil.CreateUser(t, ta.usrRepo, ta.db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)
	joe := testutil.CreateUser(t, ta.usrRepo, ta.db, "Joe", "joe", "joe@test.cd", "", user.RoleStudent, true)

	srv := httptest.NewServer(ta.app)
	defer srv.Close()

	t.Run("handshake requires a token", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat/joe"
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err != websocket.ErrBadHandshake {
			t.Fatalf("Dial(): err = %v; want %v", err, websocket.ErrBadHandshake)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("failed! code = %v; wantCode %v", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("unknown receiver fails the handshake", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat/ghost?token=" + getToken(t, ta, kim)
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err != websocket.ErrBadHandshake {
			t.Fatalf("Dial(): err = %v; want %v", err, websocket.ErrBadHandshake)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", resp.StatusCode, http.StatusNotFound)
		}
	})

	t.Run("both peers receive broadcast messages", func(t *testing.T) {
		kimConn := dialChat(t, srv.URL, "joe", getToken(t, ta, kim))
		defer kimConn.Close()
		joeConn := dialChat(t, srv.URL, "kim", getToken(t, ta, joe))
		defer joeConn.Close()

		room := chat.RoomKey("kim", "joe")
		waitForRoom(t, ta, room, 2)

		if err := kimConn.WriteJSON(map[string]string{"message": "  hey joe  "}); err != nil {
			t.Fatalf("WriteJSON(): %v", err)
		}

		want := chat.Event{Type: "chat_message", Message: "hey joe", Sender: "kim"}
		if evt := readEvent(t, joeConn); evt != want {
			t.Errorf("failed! event = %+v; want %+v", evt, want)
		}
		// the sender's own session hears it too
		if evt := readEvent(t, kimConn); evt != want {
			t.Errorf("failed! event = %+v; want %+v", evt, want)
		}

		// the exchange is persisted
		msgs, err := ta.chatSvc.History(context.Background(), kim, joe)
		if err != nil {
			t.Fatalf("History(): %v", err)
		}
		if len(msgs) != 1 || msgs[0].Message != "hey joe" {
			t.Errorf("failed! history = %+v", msgs)
		}
	})

	t.Run("blank messages error the sender only", func(t *testing.T) {
		room := chat.RoomKey("kim", "joe")
		// let the previous subtest's sessions drain out of the room
		waitForRoom(t, ta, room, 0)

		kimConn := dialChat(t, srv.URL, "joe", getToken(t, ta, kim))
		defer kimConn.Close()
		joeConn := dialChat(t, srv.URL, "kim", getToken(t, ta, joe))
		defer joeConn.Close()

		waitForRoom(t, ta, room, 2)

		if err := kimConn.WriteJSON(map[string]string{"message": "   "}); err != nil {
			t.Fatalf("WriteJSON(): %v", err)
		}
		want := chat.Event{Type: "error", Message: "message is required"}
		if evt := readEvent(t, kimConn); evt != want {
			t.Errorf("failed! event = %+v; want %+v", evt, want)
		}

		// joe never sees the rejected frame; his next event is a real message
		if err := kimConn.WriteJSON(map[string]string{"message": "for real now"}); err != nil {
			t.Fatalf("WriteJSON(): %v", err)
		}
		want = chat.Event{Type: "chat_message", Message: "for real now", Sender: "kim"}
		if evt := readEvent(t, joeConn); evt != want {
			t.Errorf("failed! event = %+v; want %+v", evt, want)
		}
	})
}
