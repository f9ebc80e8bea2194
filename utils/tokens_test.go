package utils

import (
	"errors"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
)

// setupTestDB swaps the global DB for an in-memory sqlite instance.
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// :memory: is per-connection; keep the pool at one
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	storage.DB = db

	// Refresh token writes are fire-and-forget against this unreachable client
	storage.Redis = redis.NewClient(&redis.Options{Addr: "localhost:6399"})

	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testsecret-refresh")
}

func TestCreateTokenPairRefusesInactiveAccount(t *testing.T) {
	setupTestDB(t)

	inactive := false
	user := models.User{Name: "Dormant", Email: "dormant@test.local", Role: models.RoleTenant, IsActive: &inactive}
	storage.DB.Create(&user)

	_, err := CreateTokenPair(user.ID)
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestCreateTokenPairUnknownUser(t *testing.T) {
	setupTestDB(t)

	_, err := CreateTokenPair(9999)
	if err == nil {
		t.Fatal("expected an error for an unknown user")
	}
	if errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected a lookup error, got %v", err)
	}
}

func TestCreateTokenPairEmbedsRole(t *testing.T) {
	setupTestDB(t)

	user := models.User{Name: "Karim", Email: "karim@test.local", Role: models.RoleLandlord}
	storage.DB.Create(&user)

	pair, err := CreateTokenPair(user.ID)
	if err != nil {
		t.Fatalf("expected token pair, got %v", err)
	}

	verified, err := jwt.Verify(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")), pair.AccessToken)
	if err != nil {
		t.Fatalf("failed to verify access token: %v", err)
	}
	var claims AccessToken
	if err := verified.Claims(&claims); err != nil {
		t.Fatalf("failed to read claims: %v", err)
	}
	if claims.ID != user.ID || claims.Role != models.RoleLandlord {
		t.Errorf("claims = {ID: %d, Role: %q}, want {ID: %d, Role: landlord}", claims.ID, claims.Role, user.ID)
	}
}
