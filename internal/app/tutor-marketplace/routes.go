// Package tutormarketplace собирает HTTP-приложение маркетплейса репетиторов.
package tutormarketplace

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	adcreate "github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/ads/create"
	adget "github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/ads/get"
	adlist "github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/ads/list"
	adsearch "github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/ads/search"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/auth/checktoken"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/auth/register"
	reviewcreate "github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/review/create"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/review/listbyad"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/review/listbyuser"
	sublist "github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/subscription/list"
	subrequest "github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/subscription/request"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/handlers/subscription/transition"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
	adservice "github.com/magabrotheeeer/tutor-marketplace/internal/services/ads"
	authservice "github.com/magabrotheeeer/tutor-marketplace/internal/services/auth"
	reviewservice "github.com/magabrotheeeer/tutor-marketplace/internal/services/review"
	subservice "github.com/magabrotheeeer/tutor-marketplace/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	auth *authservice.AuthService,
	ads *adservice.AdService,
	reviews *reviewservice.ReviewService,
	subscriptions *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.RateLimitMiddleware(logger),
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			render.JSON(w, req, map[string]bool{"works": true})
		})

		r.Route("/user", func(r chi.Router) {
			r.Put("/register", register.New(logger, auth).ServeHTTP)
			r.Post("/login", login.New(logger, auth).ServeHTTP)
			r.Delete("/logout/{token}", logout.New(logger, auth).ServeHTTP)
			r.Get("/checkToken/{token}/user/{userId}", checktoken.New(logger, auth).ServeHTTP)
		})

		r.Route("/ads", func(r chi.Router) {
			r.Post("/createAd", adcreate.New(logger, auth, ads).ServeHTTP)
			r.Get("/getAdInfo/{id}", adget.New(logger, ads).ServeHTTP)
			r.Get("/list/{userId}", adlist.New(logger, ads).ServeHTTP)
			r.Get("/search/{keyword}", adsearch.New(logger, ads).ServeHTTP)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/postReview", reviewcreate.New(logger, auth, reviews).ServeHTTP)
			r.Get("/getAdReviews/{adId}", listbyad.New(logger, reviews).ServeHTTP)
			r.Get("/getUserReviews/{userId}", listbyuser.New(logger, reviews).ServeHTTP)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Put("/requestSubscription", subrequest.New(logger, subscriptions).ServeHTTP)
			r.Put("/acceptSubscription", transition.New(logger, subscriptions, models.StatusWaitingPayment).ServeHTTP)
			r.Put("/rejectSubscription", transition.New(logger, subscriptions, models.StatusTutorRejected).ServeHTTP)
			r.Put("/cancelSubscription", transition.New(logger, subscriptions, models.StatusStudentCanceled).ServeHTTP)
			r.Put("/paySubscription", transition.New(logger, subscriptions, models.StatusPaid).ServeHTTP)
			r.Get("/list/{userId}", sublist.New(logger, subscriptions).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
