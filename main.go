package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/shahadathhs/barisathi-sub000/routes"
	"github.com/shahadathhs/barisathi-sub000/services"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	services.InitializeStripe()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetCurrentUser)
		user.Patch("/pushtoken", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AlterPushToken)
		user.Patch("/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AllowsNotifications)
	}

	listing := app.Party("/api/listing")
	{
		listing.Get("/", routes.GetListings)
		listing.Get("/mine", accessTokenVerifierMiddleware, utils.LandlordOnlyMiddleware, routes.GetMyListings)
		listing.Get("/{id:uint}", routes.GetListing)
		listing.Post("/", accessTokenVerifierMiddleware, utils.LandlordOnlyMiddleware, routes.CreateListing)
		listing.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateListing)
		listing.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteListing)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/listing/{id:uint}", accessTokenVerifierMiddleware, routes.CreateBooking)
		booking.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, routes.UpdateBookingStatus)
		booking.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CancelBooking)
		booking.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetTenantBookings)
		booking.Get("/landlord", accessTokenVerifierMiddleware, utils.LandlordOnlyMiddleware, routes.GetLandlordBookings)
		booking.Post("/{id:uint}/payment/intent", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreatePaymentIntent)
		booking.Post("/{id:uint}/payment/confirm", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ConfirmPayment)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyNotifications)
		notifications.Patch("/{id:uint}/read", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkNotificationRead)
		notifications.Get("/unread-count", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUnreadCount)
	}

	upload := app.Party("/api/upload")
	{
		upload.Post("/image", accessTokenVerifierMiddleware, routes.UploadImage)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Patch("/users/{id:uint}/active", routes.AdminSetUserActive)
		admin.Get("/listings", routes.AdminListListings)
		admin.Get("/listings/{id:uint}", routes.AdminGetListing)
		admin.Get("/bookings", routes.AdminListBookings)
		admin.Get("/bookings/{id:uint}", routes.AdminGetBooking)
		admin.Post("/bookings/{id:uint}/cancel", routes.AdminCancelBooking)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Println("Starting server on port " + port)
	app.Listen(":" + port)
}
