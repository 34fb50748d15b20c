package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/memstore"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/cache"
	httpmw "github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/http/middleware"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/meeting"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/notification"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/task"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/team"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/user"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/jwt"
	pkgvalidator "github.com/vindepemarte/Kiro-App-1-sub000/pkg/validator"
)

type testAPI struct {
	echo    *echo.Echo
	manager *jwt.Manager
	store   *memstore.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memstore.New()
	notifier := notification.NewService(store, cache.NewMemoryStore(), config.NotifyConfig{LedgerTTL: time.Minute}, nil)
	userService := user.NewService(store, nil)
	teamService := team.NewService(store, notifier, nil)
	taskService := task.NewService(store, notifier, nil)
	meetingService := meeting.NewService(store, nil, nil, notifier, 0, nil)

	manager := jwt.NewManager("access", "refresh", 15*time.Minute, time.Hour)

	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	router := NewRouter(
		cfg,
		store,
		NewMeeting(meetingService, nil),
		NewTeam(teamService, userService, nil),
		NewTask(taskService, nil),
		NewNotification(notifier, nil),
		NewProfile(userService, nil),
		httpmw.NewAuthMiddleware(manager),
	)

	e := echo.New()
	e.Validator = pkgvalidator.New()
	router.Setup(e)

	return &testAPI{echo: e, manager: manager, store: store}
}

func (a *testAPI) request(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		token, err := a.manager.GenerateAccessToken(userID, userID+"@example.com")
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodGet, "/v1/meetings", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RejectsBadToken(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/meetings", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	api.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_HealthIsPublic(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "memory", body["backend"])
}

func TestRouter_ProcessAndListMeetings(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodPost, "/v1/meetings/process",
		`{"title": "Standup", "transcript": "we talked about the release"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Data struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	require.Equal(t, "Standup", created.Data.Title)

	rec = api.request(t, http.MethodGet, "/v1/meetings", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	require.Equal(t, created.Data.ID, listed.Data[0].ID)

	// Another user sees nothing.
	rec = api.request(t, http.MethodGet, "/v1/meetings", "", "u2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 0)
}

func TestRouter_ErrorBodyCarriesCode(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodGet, "/v1/meetings/does-not-exist", "", "u1")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Code)
	require.NotEmpty(t, body.Message)
}

func TestRouter_EmptyTranscriptIsValidationError(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodPost, "/v1/meetings/process",
		`{"transcript": "   "}`, "u1")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "VALIDATION", body.Code)
}

func TestRouter_TeamLifecycle(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	rec := api.request(t, http.MethodPost, "/v1/teams",
		`{"name": "Platform", "description": "infra work"}`, "creator")
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	teamID := created.Data.ID
	require.NotEmpty(t, teamID)

	// Invite a registered user and accept through the API.
	profileRec := api.request(t, http.MethodGet, "/v1/profile", "", "alice")
	require.Equal(t, http.StatusOK, profileRec.Code)

	rec = api.request(t, http.MethodPost, "/v1/teams/"+teamID+"/invitations",
		`{"email": "alice@example.com"}`, "creator")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.request(t, http.MethodPost, "/v1/teams/"+teamID+"/invitations/accept", "", "alice")
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := api.store.GetTeamByID(ctx, teamID)
	require.NoError(t, err)
	require.True(t, stored.HasMember("alice"))

	// A stranger cannot read the team.
	rec = api.request(t, http.MethodGet, "/v1/teams/"+teamID, "", "stranger")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_ProfilePreferences(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodGet, "/v1/profile", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.request(t, http.MethodPut, "/v1/profile/preferences",
		`{"preferences": {"task_overdue": false}}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Preferences map[string]bool `json:"preferences"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Data.Preferences["task_overdue"])
}
