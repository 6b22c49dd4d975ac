package routes

import (
	"course-app/config"
	"course-app/database"
	adminapi "course-app/internal/api/admin"
	authapi "course-app/internal/api/auth"
	"course-app/internal/api/checkout"
	coursesapi "course-app/internal/api/courses"
	notificationsapi "course-app/internal/api/notifications"
	"course-app/internal/api/payoswebhook"
	stripewebhooks "course-app/internal/api/stripewebhook"
	"course-app/internal/api/users"
	"course-app/internal/app/http/middleware"
	stripeinfra "course-app/internal/infra/stripe"
	"course-app/internal/mail"
	"course-app/internal/payments"
	"course-app/internal/payments/payos"
	"course-app/internal/realtime"
	"course-app/internal/storage/gormstore"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	store := gormstore.New(database.DB)
	cards := stripeinfra.Provider{}
	qr := payos.NewClientFromEnv()

	// Realtime push is optional; without REDIS_ADDR the applier simply has
	// no push capability.
	var push payments.Publisher
	if config.REDIS_ADDR != "" {
		push = realtime.New(config.REDIS_ADDR)
	}

	applier := payments.NewApplier(store, mail.New(), push)
	issuer := payments.NewIssuer(store, store, cards, qr, config.APP_URL)
	reconciler := payments.NewReconciler(store, store, applier, cards)

	checkoutHandler := checkout.NewHandler(issuer, reconciler)
	stripeHandler := stripewebhooks.NewHandler(reconciler, cards)
	payosHandler := payoswebhook.NewHandler(reconciler)

	// Webhooks are signed by the providers themselves; no cookie auth, no
	// input sanitizing (it would break signature verification).
	r.POST("/webhook/stripe", stripeHandler.Handle)
	r.POST("/webhook/payos", payosHandler.Handle)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", users.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	public.GET("/courses", coursesapi.ListCourses)
	public.GET("/courses/:id", coursesapi.GetCourse)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.GET("/my-courses", coursesapi.ListMyCourses)
	auth.GET("/orders", checkout.GetOrderHistory)
	auth.GET("/notifications", notificationsapi.ListNotifications)
	auth.POST("/create-checkout-session", checkoutHandler.CreateCheckoutSession)
	auth.POST("/create-payment-link", checkoutHandler.CreatePaymentLink)
	auth.POST("/payments/confirm", checkoutHandler.ConfirmPayment)
	auth.POST("/change-password", authapi.ChangePassword)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/orders", adminapi.ListAllOrders)
}
