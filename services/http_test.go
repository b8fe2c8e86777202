package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/mooc_api/dto"
	"github.com/lac-hong-legacy/mooc_api/model"
	"github.com/lac-hong-legacy/mooc_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app      *fiber.App
	sessions *SessionService
	static   string
}

func newTestServer(t *testing.T, opts ...func(*HttpService)) *testServer {
	t.Helper()

	static := newStaticDir(t, "videos/"+videoFilename, "comics/comic-1.jpeg")
	assets := NewAssetService(NewLocalAssetProvider(static))
	sessions := newTestSessionService(NewMemorySessionStore())

	httpSvc := NewHttpService(sessions, NewContentService(assets), assets, NewMonitoringService())
	for _, opt := range opts {
		opt(httpSvc)
	}

	return &testServer{app: httpSvc.App(), sessions: sessions, static: static}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (s *testServer) startSession(t *testing.T, name string) string {
	t.Helper()

	resp, body := s.do(t, fiber.MethodPost, "/api/session/start", `{"user_name":"`+name+`"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out dto.StartSessionResponse
	require.NoError(t, shared.JSONUnmarshal(body, &out))
	require.NotEmpty(t, out.SessionID)
	assert.Equal(t, name, out.UserName)
	return out.SessionID
}

func TestHTTP_LearnerFlow(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "Alice")

	resp, body := s.do(t, fiber.MethodGet, "/api/session/"+id+"/modules", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var modules []model.ModuleState
	require.NoError(t, shared.JSONUnmarshal(body, &modules))
	require.Len(t, modules, 3)
	assert.Equal(t, model.ModuleStatusUnlocked, modules[0].Status)
	assert.Equal(t, model.ModuleStatusLocked, modules[1].Status)

	resp, body = s.do(t, fiber.MethodPost, "/api/session/"+id+"/module/3/complete", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Module is locked"}`, string(body))

	for _, moduleID := range []string{"1", "2"} {
		resp, body = s.do(t, fiber.MethodPost, "/api/session/"+id+"/module/"+moduleID+"/complete", "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	}

	resp, body = s.do(t, fiber.MethodPost, "/api/session/"+id+"/quiz/submit", `{"answers":[{"question_id":1,"selected_option":2}]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"success":true,"message":"Quiz completed successfully","quiz_type":"genially"}`, string(body))

	resp, body = s.do(t, fiber.MethodPost, "/api/session/"+id+"/module/3/complete", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var completed dto.CompleteModuleResponse
	require.NoError(t, shared.JSONUnmarshal(body, &completed))
	assert.True(t, completed.Success)
	assert.True(t, completed.AllCompleted)

	resp, body = s.do(t, fiber.MethodGet, "/api/session/"+id, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var session model.Session
	require.NoError(t, shared.JSONUnmarshal(body, &session))
	assert.Equal(t, []int{1, 2, 3}, session.CompletedModules)
	assert.True(t, session.QuizCompleted)
	assert.Equal(t, "Alice", session.UserName)
}

func TestHTTP_StartSessionValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty body", "", "user_name is required"},
		{"blank name", `{"user_name":"  "}`, "user_name is required"},
		{"missing field", `{}`, "user_name is required"},
		{"malformed json", `{"user_name":`, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := s.do(t, fiber.MethodPost, "/api/session/start", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"error":"`+tt.wantErr+`"}`, string(body))
		})
	}
}

func TestHTTP_NotFound(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "Bob")

	tests := []struct {
		name    string
		method  string
		path    string
		wantErr string
	}{
		{"unknown session", fiber.MethodGet, "/api/session/unknown", "Session not found"},
		{"unknown session modules", fiber.MethodGet, "/api/session/unknown/modules", "Session not found"},
		{"unknown session quiz", fiber.MethodPost, "/api/session/unknown/quiz/complete", "Session not found"},
		{"module out of range", fiber.MethodPost, "/api/session/" + id + "/module/9/complete", "Module not found"},
		{"content out of range", fiber.MethodGet, "/api/module/7/content", "Module not found"},
		{"missing comic", fiber.MethodGet, "/api/comics/comic-9.jpeg", "Comic image not found"},
		{"missing video", fiber.MethodGet, "/api/videos/other.mp4", "Video not found"},
		{"unknown api route", fiber.MethodGet, "/api/does/not/exist", "API endpoint not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := s.do(t, tt.method, tt.path, "")
			assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
			assert.JSONEq(t, `{"error":"`+tt.wantErr+`"}`, string(body))
		})
	}
}

func TestHTTP_InvalidModuleID(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "Carol")

	resp, body := s.do(t, fiber.MethodPost, "/api/session/"+id+"/module/abc/complete", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid module id"}`, string(body))

	resp, _ = s.do(t, fiber.MethodGet, "/api/module/abc/content", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_ModuleContent(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, fiber.MethodGet, "/api/module/1/content", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var video dto.VideoContentResponse
	require.NoError(t, shared.JSONUnmarshal(body, &video))
	assert.Equal(t, "/api/videos/"+videoFilename, video.VideoURL)

	resp, body = s.do(t, fiber.MethodGet, "/api/module/3/content", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var comic dto.ComicContentResponse
	require.NoError(t, shared.JSONUnmarshal(body, &comic))
	assert.Len(t, comic.Pages, 4)

	require.NoError(t, os.Remove(filepath.Join(s.static, "videos", videoFilename)))
	resp, body = s.do(t, fiber.MethodGet, "/api/module/1/content", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Video file not found"}`, string(body))
}

func TestHTTP_ServeAssets(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, fiber.MethodGet, "/api/videos/"+videoFilename, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "data:videos/"+videoFilename, string(body))
	assert.Equal(t, "video/mp4", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "bytes", resp.Header.Get(fiber.HeaderAcceptRanges))
	assert.Equal(t, "inline; filename="+videoFilename, resp.Header.Get(fiber.HeaderContentDisposition))

	resp, _ = s.do(t, fiber.MethodGet, "/api/comics/comic-1.jpeg", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get(fiber.HeaderContentType))
}

func TestHTTP_BlobAssetsRedirect(t *testing.T) {
	assets := NewAssetService(NewBlobAssetProvider(defaultBlobBaseURL))
	sessions := newTestSessionService(NewMemorySessionStore())
	app := NewHttpService(sessions, NewContentService(assets), assets, NewMonitoringService()).App()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/comics/comic-1.jpeg", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, defaultBlobBaseURL+"/comics/comic-1.jpeg", resp.Header.Get(fiber.HeaderLocation))
}

func TestHTTP_Preflight(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, fiber.MethodOptions, "/api/session/start", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), "POST")

	resp, _ = s.do(t, fiber.MethodGet, "/api/module/2/content", "")
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestHTTP_InternalErrorsDoNotLeak(t *testing.T) {
	secret := errors.New("dial tcp 10.0.0.5:5432: password authentication failed for user mooc")
	sessions := newTestSessionService(failingSessionStore{err: secret})
	assets := NewAssetService(NewLocalAssetProvider(newStaticDir(t)))
	app := NewHttpService(sessions, NewContentService(assets), assets, NewMonitoringService()).App()

	for _, path := range []string{"/api/session/start", "/api/session/abc/quiz/complete"} {
		req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(`{"user_name":"Alice"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Internal server error"}`, string(body))
		assert.NotContains(t, string(body), "10.0.0.5")
	}
}

func TestHTTP_SessionRateLimit(t *testing.T) {
	s := newTestServer(t, func(svc *HttpService) { svc.sessionRateLimit = 2 })

	s.startSession(t, "A")
	s.startSession(t, "B")

	resp, body := s.do(t, fiber.MethodPost, "/api/session/start", `{"user_name":"C"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Too many requests"}`, string(body))

	// other routes are not limited
	resp, _ = s.do(t, fiber.MethodGet, "/api/module/2/content", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHTTP_OpsEndpoints(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, fiber.MethodGet, "/ping", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"pong"}`, string(body))

	resp, body = s.do(t, fiber.MethodGet, "/health", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)

	s.startSession(t, "Metrics")
	resp, body = s.do(t, fiber.MethodGet, "/metrics", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mooc_sessions_created_total")
	assert.Contains(t, string(body), `endpoint="/api/session/start"`)
}

func TestHTTP_Frontend(t *testing.T) {
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "app.js"), []byte("console.log(1)"), 0o644))

	s := newTestServer(t, func(svc *HttpService) { svc.frontendDist = dist })

	resp, body := s.do(t, fiber.MethodGet, "/app.js", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "console.log(1)", string(body))

	resp, body = s.do(t, fiber.MethodGet, "/learn/module/2", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>app</html>", string(body))

	resp, body = s.do(t, fiber.MethodGet, "/api/nothing", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"API endpoint not found"}`, string(body))
}

func TestHTTP_FrontendNotBuilt(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, fiber.MethodGet, "/", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Frontend not built")
}

func TestHTTP_StartSessionLongName(t *testing.T) {
	s := newTestServer(t)

	name := strings.Repeat("Nguyễn ", 40)
	s.startSession(t, name)
}

func TestHTTP_SubmitQuizUnknownSessionBeforeBody(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{"answers":`, `{"answers":[{"question_id":-1}]}`} {
		resp, data := s.do(t, fiber.MethodPost, "/api/session/unknown/quiz/submit", body)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Session not found"}`, string(data))
	}

	id := s.startSession(t, "Dana")
	resp, data := s.do(t, fiber.MethodPost, "/api/session/"+id+"/quiz/submit", `{"answers":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, string(data))

	session, err := s.sessions.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, session.QuizCompleted)
}

func TestHttpService_HandleErrorDefaults(t *testing.T) {
	svc := NewHttpService(nil, nil, nil, nil)
	app := fiber.New(fiber.Config{ErrorHandler: svc.HandleError})
	app.Get("/bad", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "")
	})
	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusGone, "Gone away")
	})

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/bad", fiber.StatusBadRequest, `{"error":"Bad Request"}`},
		{"/missing", fiber.StatusNotFound, `{"error":"Not Found"}`},
		{"/gone", fiber.StatusGone, `{"error":"Gone away"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}
