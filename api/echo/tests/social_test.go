package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/trezcool/darasa/core/social"
	"github.com/trezcool/darasa/core/user"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_socialApi(t *testing.T) {
	ta := setup(t)

	kim := testutil.CreateUser(t, ta.usrRepo, ta.db, "Kim", "kim", "kim@test.cd", "", user.RoleStudent, true)
	joe := testutil.CreateUser(t, ta.usrRepo, ta.db, "Joe", "joe", "joe@test.cd", "", user.RoleStudent, true)

	t.Run("unauthenticated", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/status-updates")
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("text is capped", func(t *testing.T) {
		body := marchallObj(t, social.NewStatusUpdate{Text: strings.Repeat("a", 281)})
		req, rec := newAuthRequest(http.MethodPost, "/v1/status-updates", getToken(t, ta, kim), body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	post := func(t *testing.T, usr user.User, text string) social.StatusUpdate {
		t.Helper()
		body := marchallObj(t, social.NewStatusUpdate{Text: text})
		req, rec := newAuthRequest(http.MethodPost, "/v1/status-updates", getToken(t, ta, usr), body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var su social.StatusUpdate
		if err := json.Unmarshal(rec.Body.Bytes(), &su); err != nil {
			t.Fatalf("unmarshalling StatusUpdate: %v", err)
		}
		return su
	}

	su1 := post(t, kim, "first day of class")
	su2 := post(t, joe, "anyone up for algebra study group?")

	t.Run("feed, newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/status-updates", getToken(t, ta, kim))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string][]social.StatusUpdate{"status_updates": {su2, su1}}),
		}, rec)
	})

	t.Run("filter by author", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/status-updates?author=joe", getToken(t, ta, kim))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string][]social.StatusUpdate{"status_updates": {su2}}),
		}, rec)
	})
}
