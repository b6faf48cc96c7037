package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB(t)

	prevSM := sessionManager
	prevLP := libraryProvider
	sessionManager = NewSessionManager(testDB, &mockTokenCodec{}, NewTokenStore(testDB))
	libraryProvider = &localProvider{lib: NewLibrary(defaultSongs)}
	t.Cleanup(func() {
		sessionManager = prevSM
		libraryProvider = prevLP
	})

	r := gin.New()
	registerRoutes(r)
	return r
}

func bearerToken(t *testing.T, session Session) string {
	t.Helper()
	token, err := (&mockTokenCodec{}).Encode(session)
	if err != nil {
		t.Fatalf("failed to encode token: %v", err)
	}
	return token
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginEndpointIssuesToken(t *testing.T) {
	r := setupTestServer(t)

	w := doRequest(r, "POST", "/api/v1/user/login", "", `{"username":"admin","password":"admin123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token   string  `json:"token"`
		User    Session `json:"user"`
		IsAdmin bool    `json:"is_admin"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token == "" || !resp.IsAdmin || resp.User.Username != "admin" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	// The issued token was persisted, so the session restores.
	w = doRequest(r, "GET", "/api/v1/user/session", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected restored session, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginEndpointNeverSaysWhichFieldWasWrong(t *testing.T) {
	r := setupTestServer(t)

	unknownUser := doRequest(r, "POST", "/api/v1/user/login", "", `{"username":"ghost","password":"admin123"}`)
	wrongPassword := doRequest(r, "POST", "/api/v1/user/login", "", `{"username":"admin","password":"nope"}`)

	for _, w := range []*httptest.ResponseRecorder{unknownUser, wrongPassword} {
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	}
	if unknownUser.Body.String() != wrongPassword.Body.String() {
		t.Fatalf("error bodies differ: %s vs %s", unknownUser.Body.String(), wrongPassword.Body.String())
	}
}

func TestLogoutEndpointClearsSession(t *testing.T) {
	r := setupTestServer(t)

	doRequest(r, "POST", "/api/v1/user/login", "", `{"username":"user","password":"user123"}`)
	w := doRequest(r, "POST", "/api/v1/user/logout", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", w.Code)
	}
	// Logging out twice is still fine.
	if w := doRequest(r, "POST", "/api/v1/user/logout", "", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeated logout, got %d", w.Code)
	}
	if w := doRequest(r, "GET", "/api/v1/user/session", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

func TestLibraryRequiresAuthentication(t *testing.T) {
	r := setupTestServer(t)

	if w := doRequest(r, "GET", "/api/v1/library", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
	if w := doRequest(r, "GET", "/api/v1/library", "garbage", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", w.Code)
	}

	expired, _ := (&mockTokenCodec{}).EncodeWithExpiry(Session{ID: "1", Username: "admin", Role: RoleAdmin}, time.Now().Add(-time.Minute))
	if w := doRequest(r, "GET", "/api/v1/library", expired, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with an expired token, got %d", w.Code)
	}
}

func TestLibraryViewEndpoint(t *testing.T) {
	r := setupTestServer(t)
	token := bearerToken(t, Session{ID: "2", Username: "user", Role: RoleUser})

	w := doRequest(r, "GET", "/api/v1/library?q=rock", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var view LibraryView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to parse view: %v", err)
	}
	if n := len(collectSongs(view)); n != 6 {
		t.Fatalf("expected 6 songs for q=rock, got %d", n)
	}
	if view.Stats.TotalSongs != 12 {
		t.Fatalf("expected stats over the full catalog, got %d", view.Stats.TotalSongs)
	}

	w = doRequest(r, "GET", "/api/v1/library?sort=year&order=desc", token, "")
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to parse view: %v", err)
	}
	songs := collectSongs(view)
	if songs[0].Year != 1991 {
		t.Fatalf("expected 1991 first in descending year order, got %d", songs[0].Year)
	}

	w = doRequest(r, "GET", "/api/v1/library?group=genre", token, "")
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to parse view: %v", err)
	}
	if len(view.Groups) != 6 {
		t.Fatalf("expected 6 genre groups, got %d", len(view.Groups))
	}
}

func TestAddSongRequiresAdmin(t *testing.T) {
	r := setupTestServer(t)
	token := bearerToken(t, Session{ID: "2", Username: "user", Role: RoleUser})

	body := `{"title":"t","artist":"a","album":"b","year":2000,"genre":"g","duration":"3:00"}`
	if w := doRequest(r, "POST", "/api/v1/library/songs", token, body); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}
	if w := doRequest(r, "DELETE", "/api/v1/library/songs/1", token, ""); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", w.Code)
	}
}

func TestAddSongValidation(t *testing.T) {
	r := setupTestServer(t)
	token := bearerToken(t, Session{ID: "1", Username: "admin", Role: RoleAdmin})

	cases := []string{
		`{"artist":"a","album":"b","year":2000,"genre":"g","duration":"3:00"}`, // missing title
		`{"title":"t","artist":"a","album":"b","year":"nineteen","genre":"g","duration":"3:00"}`, // non-numeric year
		`{"title":"t","artist":"a","album":"b","year":2000,"genre":"g","duration":"3:5"}`, // bad duration shape
		`{"title":"t","artist":"a","album":"b","year":2000,"genre":"g","duration":"345"}`,
	}
	for _, body := range cases {
		if w := doRequest(r, "POST", "/api/v1/library/songs", token, body); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, w.Code)
		}
	}
}

func TestAdminAddAndDeleteSong(t *testing.T) {
	r := setupTestServer(t)
	token := bearerToken(t, Session{ID: "1", Username: "admin", Role: RoleAdmin})

	body := `{"title":"Karma Police","artist":"Radiohead","album":"OK Computer","year":1997,"genre":"Alternative","duration":"4:24"}`
	w := doRequest(r, "POST", "/api/v1/library/songs", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created Song
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse created song: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned song id")
	}

	if w := doRequest(r, "DELETE", "/api/v1/library/songs/"+created.ID, token, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", w.Code)
	}
	// Unknown ids are a no-op, not an error.
	if w := doRequest(r, "DELETE", "/api/v1/library/songs/"+created.ID, token, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeated delete, got %d", w.Code)
	}

	view := doRequest(r, "GET", "/api/v1/library", token, "")
	var v LibraryView
	if err := json.Unmarshal(view.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to parse view: %v", err)
	}
	if v.Stats.TotalSongs != 12 {
		t.Fatalf("expected catalog back at 12 songs, got %d", v.Stats.TotalSongs)
	}
}

func TestRemoteUnavailableAnswers503(t *testing.T) {
	r := setupTestServer(t)
	libraryProvider = &remoteProvider{
		baseURL: "http://127.0.0.1:1",
		client:  &http.Client{Timeout: 200 * time.Millisecond},
	}
	token := bearerToken(t, Session{ID: "1", Username: "admin", Role: RoleAdmin})

	w := doRequest(r, "GET", "/api/v1/library", token, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Music Library Unavailable") {
		t.Fatalf("expected remediation message, got %s", w.Body.String())
	}
}

func TestRemoteProviderRoundTrip(t *testing.T) {
	remote := setupTestServer(t)
	srv := httptest.NewServer(remote)
	defer srv.Close()

	provider := &remoteProvider{
		baseURL: srv.URL,
		token:   bearerToken(t, Session{ID: "1", Username: "admin", Role: RoleAdmin}),
		client:  srv.Client(),
	}

	view, err := provider.View(ViewRequest{Query: "rock"})
	if err != nil {
		t.Fatalf("remote view failed: %v", err)
	}
	if n := len(collectSongs(view)); n != 6 {
		t.Fatalf("expected 6 songs from remote view, got %d", n)
	}

	song, err := provider.AddSong(SongInput{Title: "t", Artist: "a", Album: "b", Year: 2000, Genre: "g", Duration: "3:00"})
	if err != nil {
		t.Fatalf("remote add failed: %v", err)
	}
	if song.ID == "" {
		t.Fatal("expected remote-assigned id")
	}
	if err := provider.DeleteSong(song.ID); err != nil {
		t.Fatalf("remote delete failed: %v", err)
	}
}
