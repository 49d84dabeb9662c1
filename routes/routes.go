package routes

import (
	"net/http"

	"voyago/admin"
	"voyago/auth"
	"voyago/bookings"
	"voyago/live"
	"voyago/middleware"
	"voyago/pay"
	"voyago/profile"
	"voyago/ratelim"
	"voyago/reviews"
	"voyago/roles"
	"voyago/search"
	"voyago/settings"
	"voyago/tours"
	"voyago/wishlist"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/tourpic/*filepath", http.Dir("static/tourpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(auth.RefreshToken))

	router.POST("/api/auth/password/forgot", ratelim.RateLimit(auth.RequestPasswordReset))
	router.POST("/api/auth/password/reset", ratelim.RateLimit(auth.ResetPassword))
}

func AddTourRoutes(router *httprouter.Router) {
	router.GET("/api/tours", ratelim.RateLimit(tours.GetTours))
	router.GET("/api/tours/:tourid", tours.GetTour)
	router.GET("/api/tours/:tourid/availability", tours.GetAvailability)

	router.POST("/api/tours", middleware.RequirePermission(roles.PermManageTours, tours.CreateTour))
	router.PUT("/api/tours/:tourid", middleware.RequirePermission(roles.PermManageTours, tours.EditTour))
	router.DELETE("/api/tours/:tourid", middleware.RequirePermission(roles.PermManageTours, tours.DeleteTour))
	router.POST("/api/tours/:tourid/image", middleware.RequirePermission(roles.PermManageTours, tours.UploadTourImage))
	router.PUT("/api/tours/:tourid/slots", middleware.RequirePermission(roles.PermManageTours, tours.SetSlots))
	router.PUT("/api/tours/:tourid/lock", middleware.RequirePermission(roles.PermManageTours, tours.ToggleLock))
}

func AddBookingRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", ratelim.RateLimit(middleware.RequirePermission(roles.PermBookTours, bookings.CreateBooking)))
	router.GET("/api/bookings", middleware.Authenticate(bookings.GetMyBookings))
	router.GET("/api/bookings/:bookingid", middleware.Authenticate(bookings.GetBooking))
	router.POST("/api/bookings/:bookingid/cancel", ratelim.RateLimit(middleware.Authenticate(bookings.CancelBooking)))
	router.GET("/api/bookings/:bookingid/receipt", ratelim.RateLimit(middleware.Authenticate(bookings.PrintReceipt)))
}

func AddPayRoutes(router *httprouter.Router) {
	router.POST("/api/pay/intent",
		ratelim.RateLimit(middleware.RequirePermission(roles.PermBookTours, withIdempotency(pay.CreateIntent))))
	router.POST("/api/pay/confirm",
		ratelim.RateLimit(middleware.RequirePermission(roles.PermBookTours, withIdempotency(pay.ConfirmPayment))))
}

// withIdempotency adapts the Idempotency-Key middleware, which speaks
// plain http.Handler, onto a httprouter.Handle.
func withIdempotency(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		pay.IdempotencyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next(w, r, ps)
		})).ServeHTTP(w, r)
	}
}

func AddWishlistRoutes(router *httprouter.Router) {
	router.GET("/api/wishlist", middleware.Authenticate(wishlist.List))
	router.PUT("/api/wishlist/:tourid", ratelim.RateLimit(middleware.Authenticate(wishlist.Toggle)))
	router.GET("/api/wishlist/:tourid/status", middleware.Authenticate(wishlist.Contains))
}

func AddSearchRoutes(router *httprouter.Router) {
	router.GET("/api/search/tours", ratelim.RateLimit(middleware.OptionalAuth(search.SearchTours)))
	router.GET("/api/search/recent", middleware.Authenticate(search.GetRecentSearches))
	router.DELETE("/api/search/recent", middleware.Authenticate(search.ClearRecentSearches))
	router.POST("/api/search/reindex", middleware.RequirePermission(roles.PermAccessAdmin, search.Reindex))
}

func AddReviewRoutes(router *httprouter.Router) {
	router.GET("/api/tours/:tourid/reviews", ratelim.RateLimit(reviews.GetReviews))
	router.POST("/api/tours/:tourid/reviews", ratelim.RateLimit(middleware.RequirePermission(roles.PermBookTours, reviews.AddReview)))
	router.DELETE("/api/tours/:tourid/reviews", middleware.Authenticate(reviews.DeleteReview))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/profile", ratelim.RateLimit(middleware.Authenticate(profile.EditProfile)))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/dashboard", middleware.RequirePermission(roles.PermAccessAdmin, admin.GetDashboard))
	router.GET("/api/admin/users", middleware.RequirePermission(roles.PermManageUsers, admin.ListUsers))
	router.PUT("/api/admin/users/:id/role", middleware.RequirePermission(roles.PermManageUsers, admin.SetUserRole))

	router.GET("/api/admin/bookings", middleware.RequirePermission(roles.PermManageBookings, bookings.ListBookings))
	router.GET("/api/admin/bookings/stats", middleware.RequirePermission(roles.PermManageBookings, bookings.GetBookingStats))
	router.PUT("/api/admin/bookings/:bookingid/status", middleware.RequirePermission(roles.PermManageBookings, bookings.ChangeStatus))

	router.GET("/api/admin/settings", middleware.RequirePermission(roles.PermAccessAdmin, settings.GetSettings))
	router.PUT("/api/admin/settings", middleware.RequirePermission(roles.PermAccessAdmin, settings.UpdateSettings))
}

func AddLiveRoutes(router *httprouter.Router) {
	router.GET("/ws/tours/:tourid", live.HandleWS)
}
