package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"wedding_backend/internal/auth"
	"wedding_backend/internal/config"
	"wedding_backend/internal/models"
	"wedding_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	plannerEmail    = "planner@wedding.test"
	plannerPassword = "planner-password"
)

// testServer - приложение на sqlite в памяти за httptest сервером
type testServer struct {
	app    *App
	server *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("CONFIG_PATH", "testdata/missing.yaml")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(uuid.NewString(), "-", "")))
	t.Setenv("JWT_SECRET", "test_secret_for_http_tests")
	t.Setenv("APP_URL", "https://rsvp.example.com")
	t.Setenv("FIRST_PLANNER_EMAIL", plannerEmail)
	t.Setenv("FIRST_PLANNER_PASSWORD", plannerPassword)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Storage.BasePath = t.TempDir()
	auth.Configure(cfg.JWT.Secret, time.Hour)

	ctx := context.Background()
	a, err := New(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, cfg, a.DB()))

	ts := &testServer{app: a, server: httptest.NewServer(a.Router())}
	t.Cleanup(func() {
		ts.server.Close()
		_ = a.Close(context.Background())
	})
	return ts
}

func (ts *testServer) SendRequest(t *testing.T, method, path, token string, body any) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req)
}

func (ts *testServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	client := ts.server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var out struct {
		Token string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "ok")
}

func TestAdminRoutesRequireAccess(t *testing.T) {
	ts := newTestServer(t)
	db := ts.app.DB()

	wedding := testutil.CreateWedding(t, db)
	other := testutil.CreateWedding(t, db)
	hash, err := auth.HashPassword("admin-password")
	require.NoError(t, err)
	admin := testutil.CreateAdmin(t, db, wedding.ID, hash)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/weddings/"+wedding.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": admin.Email, "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	token := ts.login(t, admin.Email, "admin-password")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/weddings/"+wedding.ID, token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, wedding.CoupleNames)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/weddings/"+other.ID, token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// организатор видит любую свадьбу
	plannerToken := ts.login(t, plannerEmail, plannerPassword)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/weddings/"+other.ID, plannerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestGuestJourney(t *testing.T) {
	ts := newTestServer(t)
	db := ts.app.DB()
	token := ts.login(t, plannerEmail, plannerPassword)

	wedding := testutil.CreateWedding(t, db)
	testutil.CreateTemplate(t, db, wedding.ID, models.TemplateTypeInvitation, models.LanguageEN, models.ChannelEmail, "Join us {{magicLink}}")
	admin := "/api/v1/admin/weddings/" + wedding.ID

	res, body := ts.SendRequest(t, http.MethodPost, admin+"/families", token, map[string]any{
		"name":  "Vidal Family",
		"email": "vidal@example.com",
		"members": []map[string]string{
			{"name": "Marta"},
			{"name": "Joan", "type": "CHILD"},
		},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var family models.Family
	require.NoError(t, json.Unmarshal([]byte(body), &family))
	require.Len(t, family.Members, 2)

	res, body = ts.SendRequest(t, http.MethodPost, admin+"/families", token, map[string]any{"name": "", "members": []any{}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, admin+"/invitations", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var bulk struct {
		Total int `json:"total"`
		Sent  int `json:"sent_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &bulk))
	assert.Equal(t, 1, bulk.Total)
	assert.Equal(t, 1, bulk.Sent)

	var stored models.Family
	require.NoError(t, db.First(&stored, "id = ?", family.ID).Error)
	guest := "/api/v1/guest/" + stored.MagicToken

	res, body = ts.SendRequest(t, http.MethodGet, guest, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Vidal Family")
	assert.Contains(t, body, `"has_submitted_rsvp":false`)

	res, body = ts.SendRequest(t, http.MethodPost, guest+"/rsvp", "", map[string]any{
		"members": []map[string]any{
			{"id": family.Members[0].ID, "attending": true},
			{"id": family.Members[1].ID, "attending": false},
		},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/guest/short", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var link models.ShortLink
	require.NoError(t, db.First(&link, "family_id = ?", family.ID).Error)
	res, _ = ts.SendRequest(t, http.MethodGet, "/s/"+link.Code, "", nil)
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Contains(t, res.Header.Get("Location"), stored.MagicToken)

	res, body = ts.SendRequest(t, http.MethodGet, admin+"/families/"+family.ID+"/qr", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))

	// журнал пишется фоновыми задачами
	require.Eventually(t, func() bool {
		res, body = ts.SendRequest(t, http.MethodGet, admin+"/families/"+family.ID+"/timeline", token, nil)
		return res.StatusCode == http.StatusOK && strings.Contains(body, string(models.EventRSVPSubmitted))
	}, 5*time.Second, 50*time.Millisecond, body)
	assert.Contains(t, body, string(models.EventInvitationSent))
	assert.Contains(t, body, string(models.EventGuestCreated))
}

func TestWhatsAppWebhookRejectsUnsignedRequests(t *testing.T) {
	ts := newTestServer(t)
	db := ts.app.DB()
	wedding := testutil.CreateWedding(t, db)
	testutil.CreateFamily(t, db, wedding.ID, func(f *models.Family) {
		f.WhatsAppNumber = testutil.Ptr("+34600111222")
	})

	form := url.Values{"From": {"whatsapp:+34600111222"}, "Body": {"Hola"}}
	req, err := http.NewRequest(http.MethodPost, ts.server.URL+"/api/v1/webhooks/twilio/whatsapp", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, _ := ts.do(t, req)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	req, err = http.NewRequest(http.MethodPost, ts.server.URL+"/api/v1/webhooks/twilio/whatsapp", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", "forged")

	res, _ = ts.do(t, req)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// отклоненный вебхук ничего не пишет в журнал, в том числе в фоне
	assert.Never(t, func() bool {
		var count int64
		err := db.Model(&models.TrackingEvent{}).Count(&count).Error
		return err != nil || count > 0
	}, 300*time.Millisecond, 20*time.Millisecond)
}
