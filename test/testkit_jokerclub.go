//go:build integration

package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"jokerclub/internal/bootstrap"
	"jokerclub/internal/config"
	"jokerclub/internal/models"
	"jokerclub/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type authUser struct {
	ID    uint
	Token string
}

func newJokerTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	if err := os.Setenv("APP_ENV", "test"); err != nil {
		t.Fatalf("set APP_ENV: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		t.Fatalf("init runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, db
}

func signupUser(t *testing.T, app *fiber.App, prefix string) authUser {
	t.Helper()

	suffix := time.Now().UnixNano()
	username := "u" + uuid.NewString()[:10]
	email := fmt.Sprintf("%s_%d@example.com", prefix, suffix)

	payload := map[string]string{
		"username": username,
		"email":    email,
		"password": "TestPass123!@#",
	}

	req := jsonReq(t, http.MethodPost, "/api/auth/signup", payload)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("signup app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup expected 201 got %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}

	if body.Token == "" || body.User.ID == 0 {
		t.Fatalf("invalid signup response: %+v", body)
	}

	return authUser{ID: body.User.ID, Token: body.Token}
}

func makeAdmin(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	role := models.UserRole{UserID: userID, Role: models.RoleAdmin}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error; err != nil {
		t.Fatalf("promote user to admin: %v", err)
	}
}

func jsonReq(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	if payload == nil {
		return httptest.NewRequest(method, path, nil)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authReq(t *testing.T, method, path, token string, payload any) *http.Request {
	t.Helper()
	req := jsonReq(t, method, path, payload)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request, wantStatus int, dest any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d got %d", req.Method, req.URL.Path, wantStatus, resp.StatusCode)
	}
	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			t.Fatalf("decode %s %s response: %v", req.Method, req.URL.Path, err)
		}
	}
}
