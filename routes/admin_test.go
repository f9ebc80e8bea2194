package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

// buildAdminTestApp wires the admin routes behind the real verifier and
// admin-only middleware.
func buildAdminTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", AdminListUsers)
		admin.Get("/stats", AdminStats)
		admin.Post("/bookings/{id:uint}/cancel", AdminCancelBooking)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}

func TestAdminRoutesRBAC(t *testing.T) {
	setupTestDB(t)
	app := buildAdminTestApp(t)
	tenant, _, _ := seedMarketplace(t)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	storage.DB.Create(&admin)

	// No token
	resp := doJSON(app, http.MethodGet, "/api/admin/users", "", "")
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Tenant role -> 403
	resp2 := doJSON(app, http.MethodGet, "/api/admin/users", signTestToken(tenant.ID, models.RoleTenant), "")
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for tenant role, got %d", resp2.Code)
	}

	// Admin role -> 200
	resp3 := doJSON(app, http.MethodGet, "/api/admin/users", signTestToken(admin.ID, models.RoleAdmin), "")
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d: %s", resp3.Code, resp3.Body.String())
	}
}

func TestAdminCancelPendingBookingRejectsIt(t *testing.T) {
	setupTestDB(t)
	app := buildAdminTestApp(t)
	tenant, landlord, listing := seedMarketplace(t)
	booking := seedPendingBooking(t, tenant, landlord, listing)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	storage.DB.Create(&admin)

	resp := doJSON(app, http.MethodPost, "/api/admin/bookings/"+uintStr(booking.ID)+"/cancel",
		signTestToken(admin.ID, models.RoleAdmin), `{"reason":"Listing removed by moderation"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var reloaded models.Booking
	storage.DB.First(&reloaded, booking.ID)
	if reloaded.Status != models.BookingStatusRejected {
		t.Errorf("status = %q, want rejected for a pending booking", reloaded.Status)
	}
	if reloaded.RejectionReason != "Listing removed by moderation" {
		t.Errorf("rejectionReason = %q", reloaded.RejectionReason)
	}

	// The action must leave an audit trail
	var audits int64
	storage.DB.Model(&models.AuditLog{}).Where("action = ? AND resource_id = ?", "booking.cancel", booking.ID).Count(&audits)
	if audits != 1 {
		t.Errorf("audit rows = %d, want 1", audits)
	}

	// And tell the tenant their request was terminated
	var inbox int64
	storage.DB.Model(&models.Notification{}).Where("user_id = ? AND type = ?", tenant.ID, "booking_rejected").Count(&inbox)
	if inbox != 1 {
		t.Errorf("tenant rejection notifications = %d, want 1", inbox)
	}
}

func TestAdminCancelApprovedBookingCancelsIt(t *testing.T) {
	setupTestDB(t)
	app := buildAdminTestApp(t)
	tenant, landlord, listing := seedMarketplace(t)
	booking := seedPendingBooking(t, tenant, landlord, listing)
	storage.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", models.BookingStatusApproved)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	storage.DB.Create(&admin)

	resp := doJSON(app, http.MethodPost, "/api/admin/bookings/"+uintStr(booking.ID)+"/cancel",
		signTestToken(admin.ID, models.RoleAdmin), `{"reason":"Dispute resolved in tenant's favor"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var reloaded models.Booking
	storage.DB.First(&reloaded, booking.ID)
	if reloaded.Status != models.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled for an approved booking", reloaded.Status)
	}
}

func TestAdminCancelTerminalBookingFails(t *testing.T) {
	setupTestDB(t)
	app := buildAdminTestApp(t)
	tenant, landlord, listing := seedMarketplace(t)
	booking := seedPendingBooking(t, tenant, landlord, listing)
	storage.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", models.BookingStatusConfirmed)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	storage.DB.Create(&admin)

	resp := doJSON(app, http.MethodPost, "/api/admin/bookings/"+uintStr(booking.ID)+"/cancel",
		signTestToken(admin.ID, models.RoleAdmin), `{"reason":"Too late"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on a terminal booking, got %d", resp.Code)
	}
}

func TestAdminStats(t *testing.T) {
	setupTestDB(t)
	app := buildAdminTestApp(t)
	tenant, landlord, listing := seedMarketplace(t)
	seedPendingBooking(t, tenant, landlord, listing)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	storage.DB.Create(&admin)

	resp := doJSON(app, http.MethodGet, "/api/admin/stats", signTestToken(admin.ID, models.RoleAdmin), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Data struct {
			Tenants          int64            `json:"tenants"`
			Landlords        int64            `json:"landlords"`
			Listings         int64            `json:"listings"`
			BookingsByStatus map[string]int64 `json:"bookings_by_status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Data.Tenants != 1 || payload.Data.Landlords != 1 || payload.Data.Listings != 1 {
		t.Errorf("counts = %d tenants / %d landlords / %d listings, want 1/1/1",
			payload.Data.Tenants, payload.Data.Landlords, payload.Data.Listings)
	}
	if payload.Data.BookingsByStatus[models.BookingStatusPending] != 1 {
		t.Errorf("pending bookings = %d, want 1", payload.Data.BookingsByStatus[models.BookingStatusPending])
	}
}
