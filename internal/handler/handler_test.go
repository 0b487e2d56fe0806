package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/feedback-board/internal/config"
	"github.com/feedback-board/internal/handler"
	"github.com/feedback-board/internal/models"
	"github.com/feedback-board/internal/repository"
	"github.com/feedback-board/internal/service"
	"github.com/feedback-board/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserStore is an in-memory repository.UserStore. DeleteCascade also
// removes owned feedback, like the real store does.
type fakeUserStore struct {
	users     map[string]*models.User
	feedbacks *fakeFeedbackStore
}

func (s *fakeUserStore) GetByUsername(username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) Create(user *models.User) error {
	if _, ok := s.users[user.Username]; ok {
		return repository.ErrUsernameTaken
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	s.users[user.Username] = user
	return nil
}

func (s *fakeUserStore) DeleteCascade(username string) error {
	if _, ok := s.users[username]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, username)
	for id, fb := range s.feedbacks.rows {
		if fb.Username == username {
			delete(s.feedbacks.rows, id)
		}
	}
	return nil
}

// fakeFeedbackStore is an in-memory repository.FeedbackStore.
type fakeFeedbackStore struct {
	rows   map[uint]*models.Feedback
	nextID uint
}

func (s *fakeFeedbackStore) GetByID(id uint) (*models.Feedback, error) {
	fb, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrFeedbackNotFound
	}
	copied := *fb
	return &copied, nil
}

func (s *fakeFeedbackStore) ListByUsername(username string) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, fb := range s.rows {
		if fb.Username == username {
			out = append(out, *fb)
		}
	}
	return out, nil
}

func (s *fakeFeedbackStore) Create(feedback *models.Feedback) error {
	s.nextID++
	feedback.ID = s.nextID
	copied := *feedback
	s.rows[feedback.ID] = &copied
	return nil
}

func (s *fakeFeedbackStore) Update(feedback *models.Feedback) error {
	if _, ok := s.rows[feedback.ID]; !ok {
		return repository.ErrFeedbackNotFound
	}
	copied := *feedback
	s.rows[feedback.ID] = &copied
	return nil
}

func (s *fakeFeedbackStore) Delete(id uint) error {
	if _, ok := s.rows[id]; !ok {
		return repository.ErrFeedbackNotFound
	}
	delete(s.rows, id)
	return nil
}

// testClient drives the router while carrying cookies between requests, the
// way a browser session would.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (tc *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	tc.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range tc.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		tc.cookies[cookie.Name] = cookie
	}
	return w
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	return tc.do(http.MethodPost, path, form)
}

type testApp struct {
	users     *fakeUserStore
	feedbacks *fakeFeedbackStore
	sessions  *session.MemoryStore
	router    *gin.Engine
}

func newTestApp() *testApp {
	feedbacks := &fakeFeedbackStore{rows: make(map[uint]*models.Feedback)}
	users := &fakeUserStore{users: make(map[string]*models.User), feedbacks: feedbacks}
	sessions := session.NewMemoryStore()

	authHandler := handler.NewAuthHandler(service.NewAuthService(users), sessions)
	userHandler := handler.NewUserHandler(service.NewUserService(users, feedbacks, sessions), sessions)
	feedbackHandler := handler.NewFeedbackHandler(service.NewFeedbackService(feedbacks), sessions)

	router := handler.NewRouter(
		config.SessionConfig{CookieName: "feedback_session", TTLHours: 1},
		"../../web/templates/*.html",
		sessions,
		authHandler,
		userHandler,
		feedbackHandler,
	)

	return &testApp{users: users, feedbacks: feedbacks, sessions: sessions, router: router}
}

func (app *testApp) client(t *testing.T) *testClient {
	return &testClient{t: t, router: app.router, cookies: make(map[string]*http.Cookie)}
}

func registerValues(username string) url.Values {
	return url.Values{
		"username":   {username},
		"password":   {"secret1"},
		"email":      {username + "@example.com"},
		"first_name": {"First"},
		"last_name":  {"Last"},
	}
}

func register(t *testing.T, tc *testClient, username string) {
	t.Helper()
	w := tc.post("/register", registerValues(username))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/users/"+username, w.Header().Get("Location"))
}

func addFeedback(t *testing.T, tc *testClient, username, title, content string) {
	t.Helper()
	w := tc.post("/users/"+username+"/feedback/add", url.Values{
		"title":   {title},
		"content": {content},
	})
	require.Equal(t, http.StatusFound, w.Code)
}

func TestIndexRedirectsToRegister(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)

	w := tc.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))
}

func TestRegisterEstablishesSession(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)

	register(t, tc, "alice")

	// The session now carries alice's identity: her profile renders.
	w := tc.get("/users/alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
	assert.Contains(t, w.Body.String(), "Welcome! Successfully Created Your Account!")
}

func TestRegisterValidationFailureRerenders(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)

	values := registerValues("alice")
	values.Set("email", "not-an-email")
	w := tc.post("/register", values)

	assert.Equal(t, http.StatusOK, w.Code, "validation failures re-render, no redirect")
	assert.Contains(t, w.Body.String(), "Invalid email address.")
	assert.Contains(t, w.Body.String(), `value="alice"`, "submitted values are preserved")
	assert.Empty(t, app.users.users, "no mutation on validation failure")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := newTestApp()
	register(t, app.client(t), "alice")

	values := registerValues("alice")
	values.Set("email", "other@example.com")
	w := app.client(t).post("/register", values)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username taken.  Please pick another")
	assert.Len(t, app.users.users, 1, "account count must not increase")
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp()
	register(t, app.client(t), "alice")

	tc := app.client(t)
	w := tc.post("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username/password.")

	// Session identity stays unset: gated routes bounce to /login.
	w = tc.get("/users/alice")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginUnknownUsername(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)

	w := tc.post("/login", url.Values{"username": {"ghost"}, "password": {"secret1"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username/password.")
}

func TestLoginAndLogout(t *testing.T) {
	app := newTestApp()
	register(t, app.client(t), "alice")

	tc := app.client(t)
	w := tc.post("/login", url.Values{"username": {"alice"}, "password": {"secret1"}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/users/alice", w.Header().Get("Location"))

	w = tc.get("/users/alice")
	assert.Contains(t, w.Body.String(), "Welcome Back, alice!")

	w = tc.post("/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = tc.get("/users/alice")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestUnauthenticatedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp()
	register(t, app.client(t), "alice")

	tc := app.client(t)
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/alice"},
		{http.MethodGet, "/users/alice/feedback/add"},
		{http.MethodPost, "/users/alice/feedback/add"},
		{http.MethodPost, "/users/alice/delete"},
		{http.MethodPost, "/logout"},
	}

	for _, p := range paths {
		w := tc.do(p.method, p.path, url.Values{})
		assert.Equal(t, http.StatusFound, w.Code, "%s %s", p.method, p.path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "%s %s", p.method, p.path)
	}
	assert.Len(t, app.users.users, 1, "no mutation without a session")
}

func TestProfileVisibleToOtherUsers(t *testing.T) {
	app := newTestApp()
	register(t, app.client(t), "alice")

	bob := app.client(t)
	register(t, bob, "bob")

	// Reads carry no ownership restriction.
	w := bob.get("/users/alice")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileUnknownUserNotFound(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)
	register(t, tc, "alice")

	w := tc.get("/users/ghost")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddFeedback(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)
	register(t, tc, "alice")

	w := tc.post("/users/alice/feedback/add", url.Values{
		"title":   {"Hi"},
		"content": {"Hello"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/alice", w.Header().Get("Location"))

	require.Len(t, app.feedbacks.rows, 1)
	for _, fb := range app.feedbacks.rows {
		assert.Equal(t, "Hi", fb.Title)
		assert.Equal(t, "Hello", fb.Content)
		assert.Equal(t, "alice", fb.Username)
	}
}

func TestAddFeedbackValidationFailure(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)
	register(t, tc, "alice")

	w := tc.post("/users/alice/feedback/add", url.Values{
		"title":   {""},
		"content": {"Hello"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
	assert.Empty(t, app.feedbacks.rows, "no mutation on validation failure")
}

func TestAddFeedbackToOtherProfileDenied(t *testing.T) {
	app := newTestApp()
	register(t, app.client(t), "alice")

	bob := app.client(t)
	register(t, bob, "bob")

	w := bob.post("/users/alice/feedback/add", url.Values{
		"title":   {"Hi"},
		"content": {"Hello"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/bob", w.Header().Get("Location"), "redirect to the actor's own profile")
	assert.Empty(t, app.feedbacks.rows)

	w = bob.get("/users/bob")
	assert.Contains(t, w.Body.String(), "You can only add feedback to your own profile!")
}

func TestUpdateFeedbackPrefillsForm(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)
	register(t, tc, "alice")
	addFeedback(t, tc, "alice", "Hi", "Hello")

	w := tc.get("/feedback/1/update")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Hi"`)
	assert.Contains(t, w.Body.String(), "Hello")
}

func TestUpdateFeedback(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)
	register(t, tc, "alice")
	addFeedback(t, tc, "alice", "Hi", "Hello")

	w := tc.post("/feedback/1/update", url.Values{
		"title":   {"Hi again"},
		"content": {"Updated"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/alice", w.Header().Get("Location"))

	fb := app.feedbacks.rows[1]
	require.NotNil(t, fb)
	assert.Equal(t, "Hi again", fb.Title)
	assert.Equal(t, "Updated", fb.Content)
}

func TestUpdateOthersFeedbackDenied(t *testing.T) {
	app := newTestApp()
	alice := app.client(t)
	register(t, alice, "alice")
	addFeedback(t, alice, "alice", "Hi", "Hello")

	bob := app.client(t)
	register(t, bob, "bob")

	w := bob.post("/feedback/1/update", url.Values{
		"title":   {"Hijacked"},
		"content": {"Nope"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/bob", w.Header().Get("Location"))
	assert.Equal(t, "Hi", app.feedbacks.rows[1].Title, "store unchanged")
}

func TestDeleteOthersFeedbackDenied(t *testing.T) {
	app := newTestApp()
	alice := app.client(t)
	register(t, alice, "alice")
	addFeedback(t, alice, "alice", "Hi", "Hello")

	bob := app.client(t)
	register(t, bob, "bob")

	w := bob.post("/feedback/1/delete", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/bob", w.Header().Get("Location"))
	assert.Len(t, app.feedbacks.rows, 1, "no row deleted")

	w = bob.get("/users/bob")
	assert.Contains(t, w.Body.String(), "You can only delete your own feedback")
}

func TestDeleteOwnFeedback(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)
	register(t, tc, "alice")
	addFeedback(t, tc, "alice", "Hi", "Hello")

	w := tc.post("/feedback/1/delete", nil)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/alice", w.Header().Get("Location"))
	assert.Empty(t, app.feedbacks.rows)
}

func TestFeedbackNotFound(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)
	register(t, tc, "alice")

	w := tc.get("/feedback/999/update")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = tc.post("/feedback/999/delete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUserCascades(t *testing.T) {
	app := newTestApp()
	tc := app.client(t)
	register(t, tc, "alice")
	addFeedback(t, tc, "alice", "Hi", "Hello")
	addFeedback(t, tc, "alice", "Bye", "World")

	w := tc.post("/users/alice/delete", nil)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, app.users.users)
	assert.Empty(t, app.feedbacks.rows, "cascade removes all owned feedback")

	// Every session for alice is gone; the old cookie is anonymous now.
	w = tc.get("/users/alice")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestDeleteUserSparesReauthenticatedSessions(t *testing.T) {
	app := newTestApp()

	// alice and bob share a browser: alice registers, then bob registers on
	// the same client, taking over the session.
	shared := app.client(t)
	register(t, shared, "alice")
	register(t, shared, "bob")

	// alice deletes her account from her own device.
	aliceClient := app.client(t)
	w := aliceClient.post("/login", url.Values{"username": {"alice"}, "password": {"secret1"}})
	require.Equal(t, http.StatusFound, w.Code)
	w = aliceClient.post("/users/alice/delete", nil)
	require.Equal(t, http.StatusFound, w.Code)

	// The shared client belongs to bob now; sweeping alice's sessions must
	// not log him out.
	w = shared.get("/users/bob")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteOtherUserDenied(t *testing.T) {
	app := newTestApp()
	register(t, app.client(t), "alice")

	bob := app.client(t)
	register(t, bob, "bob")

	w := bob.post("/users/alice/delete", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/bob", w.Header().Get("Location"))
	assert.Len(t, app.users.users, 2, "no account removed")
}
