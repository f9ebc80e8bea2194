package routes

import (
	"net/http"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
)

func buildUserTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testsecret-refresh")

	app := iris.New()
	app.Validator = validator.New()

	user := app.Party("/api/user")
	{
		user.Post("/register", Register)
		user.Post("/login", Login)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	app := buildUserTestApp(t)

	payload := `{"name":"Rahim Uddin","email":"rahim@test.local","password":"supersecret","role":"tenant"}`
	resp := doJSON(app, http.MethodPost, "/api/user/register", "", payload)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on first registration, got %d: %s", resp.Code, resp.Body.String())
	}

	resp2 := doJSON(app, http.MethodPost, "/api/user/register", "", payload)
	if resp2.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %d: %s", resp2.Code, resp2.Body.String())
	}

	var count int64
	storage.DB.Model(&models.User{}).Where("email = ?", "rahim@test.local").Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	setupTestDB(t)
	app := buildUserTestApp(t)

	payload := `{"name":"Rahim Uddin","email":"rahim@test.local","password":"supersecret","role":"tenant"}`
	resp := doJSON(app, http.MethodPost, "/api/user/register", "", payload)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on registration, got %d: %s", resp.Code, resp.Body.String())
	}

	storage.DB.Model(&models.User{}).Where("email = ?", "rahim@test.local").
		Update("is_active", false)

	resp2 := doJSON(app, http.MethodPost, "/api/user/login", "",
		`{"email":"rahim@test.local","password":"supersecret"}`)
	if resp2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deactivated account, got %d: %s", resp2.Code, resp2.Body.String())
	}
}
