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

func buildListingTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	app := iris.New()
	app.Configure(iris.WithoutPathCorrectionRedirection)
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	listing := app.Party("/api/listing")
	{
		listing.Get("/", GetListings)
		listing.Post("/", accessTokenVerifierMiddleware, utils.LandlordOnlyMiddleware, CreateListing)
		listing.Delete("/{id:uint}", accessTokenVerifierMiddleware, DeleteListing)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}

func TestCreateListingValidation(t *testing.T) {
	setupTestDB(t)
	app := buildListingTestApp(t)
	_, landlord, _ := seedMarketplace(t)

	// Description below the minimum length
	resp := doJSON(app, http.MethodPost, "/api/listing/",
		signTestToken(landlord.ID, models.RoleLandlord),
		`{"location":"Mirpur, Dhaka","description":"too short","rent":9000,"bedrooms":2,"images":["https://cdn.test/img.jpg"]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short description, got %d: %s", resp.Code, resp.Body.String())
	}

	resp2 := doJSON(app, http.MethodPost, "/api/listing/",
		signTestToken(landlord.ID, models.RoleLandlord),
		`{"location":"Mirpur, Dhaka","description":"Spacious two bedroom flat with gas and water.","rent":9000,"bedrooms":2,"images":["https://cdn.test/img.jpg"]}`)
	if resp2.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp2.Code, resp2.Body.String())
	}

	var created models.Listing
	if err := json.Unmarshal(resp2.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.LandlordID != landlord.ID {
		t.Errorf("landlordID = %d, want %d", created.LandlordID, landlord.ID)
	}
}

func TestCreateListingForbidsTenant(t *testing.T) {
	setupTestDB(t)
	app := buildListingTestApp(t)
	tenant, _, _ := seedMarketplace(t)

	resp := doJSON(app, http.MethodPost, "/api/listing/",
		signTestToken(tenant.ID, models.RoleTenant),
		`{"location":"Mirpur, Dhaka","description":"Spacious two bedroom flat with gas and water.","rent":9000,"bedrooms":2,"images":["https://cdn.test/img.jpg"]}`)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for tenant, got %d", resp.Code)
	}
}

func TestDeleteListingBlockedByActiveBookings(t *testing.T) {
	setupTestDB(t)
	app := buildListingTestApp(t)
	tenant, landlord, listing := seedMarketplace(t)
	seedPendingBooking(t, tenant, landlord, listing)

	resp := doJSON(app, http.MethodDelete, "/api/listing/"+uintStr(listing.ID),
		signTestToken(landlord.ID, models.RoleLandlord), "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 with an active booking, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	storage.DB.Model(&models.Listing{}).Where("id = ?", listing.ID).Count(&count)
	if count != 1 {
		t.Errorf("listing was deleted despite active bookings")
	}
}

func TestAdminForceDeleteTerminatesBookings(t *testing.T) {
	setupTestDB(t)
	app := buildListingTestApp(t)
	tenant, landlord, listing := seedMarketplace(t)
	pending := seedPendingBooking(t, tenant, landlord, listing)
	approved := seedPendingBooking(t, tenant, landlord, listing)
	storage.DB.Model(&models.Booking{}).Where("id = ?", approved.ID).
		Update("status", models.BookingStatusApproved)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Role: models.RoleAdmin}
	storage.DB.Create(&admin)

	// force without admin role is still a conflict
	resp := doJSON(app, http.MethodDelete, "/api/listing/"+uintStr(listing.ID)+"?force=true",
		signTestToken(landlord.ID, models.RoleLandlord), "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for non-admin force, got %d", resp.Code)
	}

	resp2 := doJSON(app, http.MethodDelete, "/api/listing/"+uintStr(listing.ID)+"?force=true",
		signTestToken(admin.ID, models.RoleAdmin), "")
	if resp2.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin force delete, got %d: %s", resp2.Code, resp2.Body.String())
	}

	var rejected, cancelled models.Booking
	storage.DB.First(&rejected, pending.ID)
	storage.DB.First(&cancelled, approved.ID)
	if rejected.Status != models.BookingStatusRejected {
		t.Errorf("pending booking status = %q, want rejected", rejected.Status)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Errorf("approved booking status = %q, want cancelled", cancelled.Status)
	}

	// Both tenants must learn their booking was terminated
	var inbox int64
	storage.DB.Model(&models.Notification{}).Where("user_id = ?", tenant.ID).Count(&inbox)
	if inbox != 2 {
		t.Errorf("tenant notifications = %d, want 2", inbox)
	}
}

func TestGetListingsFilters(t *testing.T) {
	setupTestDB(t)
	app := buildListingTestApp(t)
	_, landlord, _ := seedMarketplace(t)

	storage.DB.Create(&models.Listing{LandlordID: landlord.ID, Location: "Uttara, Dhaka", Rent: 15000, Bedrooms: 3})
	storage.DB.Create(&models.Listing{LandlordID: landlord.ID, Location: "Agrabad, Chattogram", Rent: 8000, Bedrooms: 2})

	resp := doJSON(app, http.MethodGet, "/api/listing/?location=chattogram", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Data []models.Listing `json:"data"`
		Meta utils.PageMeta   `json:"meta"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Location != "Agrabad, Chattogram" {
		t.Fatalf("location filter returned %d rows", len(payload.Data))
	}

	resp2 := doJSON(app, http.MethodGet, "/api/listing/?minRent=10000", "", "")
	var payload2 struct {
		Data []models.Listing `json:"data"`
	}
	json.Unmarshal(resp2.Body.Bytes(), &payload2)
	for _, l := range payload2.Data {
		if l.Rent < 10000 {
			t.Errorf("minRent filter returned listing with rent %v", l.Rent)
		}
	}
}
