package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/media"
	"github.com/hirehub/hirehub-backend/internal/metrics"
	"github.com/hirehub/hirehub-backend/internal/repository/memory"
	"github.com/hirehub/hirehub-backend/internal/service"
	"github.com/hirehub/hirehub-backend/internal/util"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string]int64
}

func (s *memoryStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string]int64)
	}
	s.objects[bucket+"/"+objectName] = int64(len(data))
	return "https://cdn.test/" + bucket + "/" + objectName, nil
}

func (s *memoryStorage) Remove(ctx context.Context, bucket, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, bucket+"/"+objectName)
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	codes   map[string]string
	replies []string
}

func (n *recordingNotifier) SendOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.codes == nil {
		n.codes = make(map[string]string)
	}
	n.codes[email] = code
	return nil
}

func (n *recordingNotifier) SendContactReply(ctx context.Context, email, name, reply string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replies = append(n.replies, email)
	return nil
}

func (n *recordingNotifier) code(t *testing.T, email string) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	code, ok := n.codes[email]
	if !ok {
		t.Fatalf("no otp was sent to %s", email)
	}
	return code
}

type testServer struct {
	e        *echo.Echo
	store    *memory.Store
	notifier *recordingNotifier
}

func newTestServer(t *testing.T, rateLimitPerMinute int) *testServer {
	t.Helper()
	store := memory.NewStore()
	storage := &memoryStorage{}
	notifier := &recordingNotifier{}
	inspector := media.NewInspector(0, 0)
	tokens := util.NewJWTManager("test-secret", 24*time.Hour)

	auth := service.NewAuthService(
		service.NewCredentialStore(store.Users()),
		store.Profiles(),
		service.NewOTPStore(store.OTPs()),
		storage,
		inspector,
		notifier,
		tokens,
		service.AuthServiceConfig{ProfileBucket: "profiles"},
		nil,
		nil,
	)
	users := service.NewUserService(store.Users(), store.Profiles(), storage, inspector, "resumes", nil)
	contacts := service.NewContactService(store.Contacts(), notifier, nil, nil)

	e := NewRouter(RouterConfig{
		AllowOrigins:       []string{"http://localhost:3000"},
		Cookies:            CookieConfig{MaxAge: 24 * time.Hour},
		RateLimitPerMinute: rateLimitPerMinute,
	}, Services{Auth: auth, Users: users, Contacts: contacts}, metrics.New(), nil)

	return &testServer{e: e, store: store, notifier: notifier}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createUser(t *testing.T, email, password string, role domain.Role) {
	t.Helper()
	_, err := service.NewCredentialStore(s.store.Users()).Create(context.Background(), service.NewUser{
		FullName:    "Seeded User",
		Email:       email,
		PhoneNumber: "5550100",
		Password:    password,
		Role:        role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func (s *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := s.do(jsonRequest(t, http.MethodPost, "/api/v1/user/login", map[string]string{"email": email, "password": password}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatalf("response did not set the %s cookie", sessionCookieName)
	return nil
}

func TestRegisterVerifyFlow(t *testing.T) {
	srv := newTestServer(t, 0)
	email := "ada@example.com"

	rec := srv.do(multipartRequest(t, "/api/v1/user/register", map[string]string{
		"fullname":    "Ada Lovelace",
		"email":       email,
		"phoneNumber": "5550101",
		"password":    "s3cret-pass",
		"role":        "student",
	}, "ada.png", pngBytes(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeEnvelope(t, rec)["success"]; got != true {
		t.Fatalf("register: expected success=true, got %v", got)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			t.Fatal("register must not start a session")
		}
	}

	rec = srv.do(multipartRequest(t, "/api/v1/user/register", map[string]string{
		"fullname":    "Ada Again",
		"email":       email,
		"phoneNumber": "5550102",
		"password":    "another-pass",
		"role":        "student",
	}, "ada.png", pngBytes(t)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/send-otp", map[string]string{"email": email, "role": "recruiter"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("send-otp with wrong role: expected 400, got %d", rec.Code)
	}

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/send-otp", map[string]string{"email": email, "role": "student"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("send-otp: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	code := srv.notifier.code(t, email)

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/verify-otp", map[string]string{"email": email, "otp": "000000x"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("verify-otp with wrong code: expected 400, got %d", rec.Code)
	}

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/verify-otp", map[string]string{"email": email, "otp": code}))
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-otp: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly || cookie.Path != "/" || cookie.MaxAge != 86400 {
		t.Fatalf("unexpected session cookie attributes: %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.AddCookie(cookie)
	rec = srv.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user, ok := decodeEnvelope(t, rec)["user"].(map[string]any)
	if !ok {
		t.Fatalf("me: missing user in %s", rec.Body.String())
	}
	if user["email"] != email || user["isVerified"] != true {
		t.Fatalf("me: unexpected user %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("me: password must not be serialized")
	}
	profile, ok := user["profile"].(map[string]any)
	if !ok || profile["profilePhoto"] == "" {
		t.Fatalf("me: expected populated profile, got %v", user["profile"])
	}
}

func TestLoginDoesNotRevealUnknownEmail(t *testing.T) {
	srv := newTestServer(t, 0)
	srv.createUser(t, "grace@example.com", "right-pass", domain.RoleRecruiter)

	wrong := srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/login", map[string]string{"email": "grace@example.com", "password": "nope"}))
	unknown := srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/login", map[string]string{"email": "ghost@example.com", "password": "nope"}))

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", wrong.Code, unknown.Code)
	}
	if decodeEnvelope(t, wrong)["message"] != decodeEnvelope(t, unknown)["message"] {
		t.Fatal("wrong password and unknown email must share a message")
	}
}

func TestLoginRejectsBlockedAccount(t *testing.T) {
	srv := newTestServer(t, 0)
	srv.createUser(t, "admin@example.com", "admin-pass", domain.RoleAdmin)
	srv.createUser(t, "stu@example.com", "stu-pass", domain.RoleStudent)
	adminCookie := srv.login(t, "admin@example.com", "admin-pass")
	studentCookie := srv.login(t, "stu@example.com", "stu-pass")

	stored, err := srv.store.Users().FindByEmail(context.Background(), "stu@example.com")
	if err != nil {
		t.Fatalf("find student: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/user/block/"+stored.ID, nil)
	req.AddCookie(adminCookie)
	rec := srv.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("block: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if status := decodeEnvelope(t, rec)["status"]; status != string(domain.StatusBlocked) {
		t.Fatalf("block: expected status blocked, got %v", status)
	}

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/login", map[string]string{"email": "stu@example.com", "password": "stu-pass"}))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("blocked login: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.AddCookie(studentCookie)
	if rec := srv.do(req); rec.Code != http.StatusForbidden {
		t.Fatalf("blocked session: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/user/block/"+stored.ID, nil)
	req.AddCookie(adminCookie)
	rec = srv.do(req)
	if status := decodeEnvelope(t, rec)["status"]; status != string(domain.StatusVerified) {
		t.Fatalf("unblock: expected status verified, got %v", status)
	}
}

func TestAdminRoutes(t *testing.T) {
	srv := newTestServer(t, 0)
	srv.createUser(t, "admin@example.com", "admin-pass", domain.RoleAdmin)
	srv.createUser(t, "stu@example.com", "stu-pass", domain.RoleStudent)

	t.Run("anonymous", func(t *testing.T) {
		rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/user/allstudents", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("non-admin", func(t *testing.T) {
		cookie := srv.login(t, "stu@example.com", "stu-pass")
		for _, path := range []string{"/api/v1/user/allstudents", "/api/v1/user/allrecruiters", "/api/v1/contact/contact-messages"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.AddCookie(cookie)
			if rec := srv.do(req); rec.Code != http.StatusForbidden {
				t.Fatalf("%s: expected 403, got %d", path, rec.Code)
			}
		}
	})

	t.Run("admin", func(t *testing.T) {
		cookie := srv.login(t, "admin@example.com", "admin-pass")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/allstudents?limit=10", nil)
		req.AddCookie(cookie)
		rec := srv.do(req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		students, ok := body["students"].([]any)
		if !ok || len(students) != 1 {
			t.Fatalf("expected one student, got %v", body["students"])
		}
		meta := body["meta"].(map[string]any)
		if meta["limit"] != float64(10) || meta["count"] != float64(1) {
			t.Fatalf("unexpected meta %v", meta)
		}
	})

	t.Run("bad paging", func(t *testing.T) {
		cookie := srv.login(t, "admin@example.com", "admin-pass")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/allrecruiters?offset=-3", nil)
		req.AddCookie(cookie)
		if rec := srv.do(req); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBearerTokenFallback(t *testing.T) {
	srv := newTestServer(t, 0)
	srv.createUser(t, "rec@example.com", "rec-pass", domain.RoleRecruiter)
	cookie := srv.login(t, "rec@example.com", "rec-pass")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+cookie.Value)
	if rec := srv.do(req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	if rec := srv.do(req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", rec.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	srv := newTestServer(t, 0)
	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/user/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(t, rec)
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected an expired empty cookie, got %+v", cookie)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	srv := newTestServer(t, 0)
	srv.createUser(t, "reset@example.com", "old-pass", domain.RoleStudent)

	rec := srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/forgot-password", map[string]string{"email": "missing@example.com"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("forgot-password for unknown email: expected 404, got %d", rec.Code)
	}

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/forgot-password", map[string]string{"email": "reset@example.com"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("forgot-password: expected 200, got %d", rec.Code)
	}
	code := srv.notifier.code(t, "reset@example.com")

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/verify-reset-otp", map[string]string{"email": "reset@example.com", "otp": code}))
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-reset-otp: expected 200, got %d", rec.Code)
	}

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/reset-password", map[string]string{
		"email": "reset@example.com", "otp": code, "newPassword": "new-pass",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("reset-password: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	srv.login(t, "reset@example.com", "new-pass")
}

func TestContactRoutes(t *testing.T) {
	srv := newTestServer(t, 0)
	srv.createUser(t, "admin@example.com", "admin-pass", domain.RoleAdmin)

	rec := srv.do(jsonRequest(t, http.MethodPost, "/api/v1/contact/submit", map[string]string{"name": "Lin", "email": "not-an-email", "message": "hi"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed email: expected 400, got %d", rec.Code)
	}

	rec = srv.do(jsonRequest(t, http.MethodPost, "/api/v1/contact/submit", map[string]string{"name": "Lin", "email": "lin@example.com", "message": "hi"}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	contact := decodeEnvelope(t, rec)["contact"].(map[string]any)
	id, _ := contact["_id"].(string)

	cookie := srv.login(t, "admin@example.com", "admin-pass")

	req := jsonRequest(t, http.MethodPost, "/api/v1/contact/reply", map[string]string{"messageId": id, "reply": "thanks"})
	req.AddCookie(cookie)
	if rec := srv.do(req); rec.Code != http.StatusOK {
		t.Fatalf("reply: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(srv.notifier.replies) != 1 || srv.notifier.replies[0] != "lin@example.com" {
		t.Fatalf("expected one reply to lin@example.com, got %v", srv.notifier.replies)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/contact/delete/"+id, nil)
	req.AddCookie(cookie)
	if rec := srv.do(req); rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/contact/delete/"+id, nil)
	req.AddCookie(cookie)
	if rec := srv.do(req); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestServer(t, 10)
	body := map[string]string{"email": "nobody@example.com", "password": "x"}

	if rec := srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/login", body)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("first attempt: expected 401, got %d", rec.Code)
	}
	rec := srv.do(jsonRequest(t, http.MethodPost, "/api/v1/user/login", body))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt: expected 429, got %d", rec.Code)
	}
	if decodeEnvelope(t, rec)["success"] != false {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestPanicRendersEnvelope(t *testing.T) {
	srv := newTestServer(t, 0)
	srv.e.GET("/boom", func(c echo.Context) error { panic("boom") })

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false || body["message"] != genericErrorMessage {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, 0)
	if rec := srv.do(httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	srv.do(httptest.NewRequest(http.MethodGet, "/test", nil))

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("go_goroutines")) {
		t.Fatal("metrics: expected go collector output")
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("expected a request id header")
	}
}
