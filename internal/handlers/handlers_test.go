package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freelancehub/backend/internal/middleware"
	"github.com/freelancehub/backend/internal/models"
	"github.com/freelancehub/backend/internal/realtime"
	"github.com/freelancehub/backend/internal/services/account"
	"github.com/freelancehub/backend/internal/services/bid"
	"github.com/freelancehub/backend/internal/services/project"
	"github.com/freelancehub/backend/internal/utils"
)

const testSecret = "test-secret"

type noopMailer struct{}

func (noopMailer) SendVerificationCode(to, username, code string) error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Bid{}))

	zlog := zap.NewNop().Sugar()
	accounts := account.NewService(db, noopMailer{}, zlog)
	projects := project.NewService(db, zlog)
	bids := bid.NewService(db, zlog)
	events := &realtime.Publisher{Log: zlog}

	authH := &AuthHandler{DB: db, Accounts: accounts, JWTSecret: testSecret, Expires: 60}
	projectH := NewProjectHandler(projects, events)
	bidH := NewBidHandler(bids, projects, events)
	profileH := NewProfileHandler(accounts)

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/auth/login", authH.Login)

	protected := api.Group("/",
		middleware.JWTFromCookie(testSecret),
		middleware.AttachJWTLocals(db),
	)
	protected.Get("/profile", profileH.GetUserType)
	protected.Post("/profile/toggle", profileH.ToggleUserType)
	protected.Post("/projects", middleware.RequireRoles("client"), projectH.Create)
	protected.Get("/projects", projectH.ListMine)
	protected.Get("/projects/:id", projectH.GetOne)
	protected.Delete("/projects/:id", projectH.Delete)
	protected.Post("/bids", middleware.RequireRoles("freelancer"), bidH.Place)
	protected.Get("/bids", bidH.ListMyBidProjects)

	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	hashed, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	u := models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   hashed,
		IsVerified: true,
		UserType:   role,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, as *models.User) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if as != nil {
		token, err := utils.SignJWT(testSecret, as.ID.String(), 60)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "alice", models.RoleClient)

	resp, body := doJSON(t, app, "POST", "/api/auth/login",
		map[string]string{"identifier": "alice", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var hasCookie bool
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			hasCookie = true
		}
	}
	assert.True(t, hasCookie)

	resp, _ = doJSON(t, app, "POST", "/api/auth/login",
		map[string]string{"identifier": "alice", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProjectBidFlowOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	client := seedUser(t, db, "alice", models.RoleClient)
	freelancer := seedUser(t, db, "bob", models.RoleFreelancer)

	// Freelancers may not post projects.
	resp, _ := doJSON(t, app, "POST", "/api/projects", map[string]string{
		"title": "Redesign company website", "details": strings.Repeat("a", 30), "amount": "5000",
	}, freelancer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/projects", map[string]string{
		"title": "Redesign company website", "details": strings.Repeat("a", 30), "amount": "5000",
	}, client)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	projectID := data["project"].(map[string]any)["id"].(string)

	// Clients may not bid.
	resp, _ = doJSON(t, app, "POST", "/api/bids", map[string]string{
		"project_id": projectID, "bid": "I can deliver in 2 weeks",
	}, client)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/bids", map[string]string{
		"project_id": projectID, "bid": "I can deliver in 2 weeks",
	}, freelancer)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Second bid by the same freelancer conflicts.
	resp, body = doJSON(t, app, "POST", "/api/bids", map[string]string{
		"project_id": projectID, "bid": "Actually one week",
	}, freelancer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You have already placed a bid for this project", body["message"])

	// The freelancer sees the project under their bids.
	resp, body = doJSON(t, app, "GET", "/api/bids", nil, freelancer)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["projects"], 1)

	// Owner-scoped delete: the freelancer gets not-found, the owner succeeds.
	resp, _ = doJSON(t, app, "DELETE", "/api/projects/"+projectID, nil, freelancer)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/projects/"+projectID, nil, client)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/projects/"+projectID, nil, client)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleRoleTakesEffectImmediately(t *testing.T) {
	app, db := newTestApp(t)
	user := seedUser(t, db, "alice", models.RoleClient)

	resp, body := doJSON(t, app, "GET", "/api/profile", nil, user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "client", body["user_type"])

	resp, body = doJSON(t, app, "POST", "/api/profile/toggle", nil, user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "freelancer", body["user_type"])

	// The role gate sees the new role on the very next request.
	resp, _ = doJSON(t, app, "POST", "/api/projects", map[string]string{
		"title": "Redesign company website", "details": strings.Repeat("a", 30), "amount": "5000",
	}, user)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/bids", map[string]string{
		"project_id": "not-a-uuid", "bid": "hello there",
	}, user)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidationErrorsCarryFields(t *testing.T) {
	app, db := newTestApp(t)
	client := seedUser(t, db, "alice", models.RoleClient)

	resp, body := doJSON(t, app, "POST", "/api/projects", map[string]string{
		"title": "short", "details": "too short", "amount": "1",
	}, client)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "details")
	assert.Contains(t, errs, "amount")
}

func TestListMineFilters(t *testing.T) {
	app, db := newTestApp(t)
	client := seedUser(t, db, "alice", models.RoleClient)

	for _, title := range []string{"Build API service", "Design Logo work", "api gateway setup"} {
		resp, _ := doJSON(t, app, "POST", "/api/projects", map[string]string{
			"title": title, "details": strings.Repeat("a", 30), "amount": "5000",
		}, client)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, app, "GET", "/api/projects?q=api", nil, client)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	projects := body["projects"].([]any)
	require.Len(t, projects, 2)
	for _, p := range projects {
		title := p.(map[string]any)["title"].(string)
		assert.Contains(t, strings.ToLower(title), "api")
	}
}
