package router

import (
	"context"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/handler/api"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/stored-images-ms-go/internal/middleware"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	imageSvc "github.com/fhuszti/stored-images-ms-go/internal/usecase/image"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultReadyTimeout = 2 * time.Second

type Options struct {
	APIPrefix    string
	JWTPublicKey string
	JWTIssuer    string
	JWTAudience  string
	// WriteRoles, when set, are required to create, update or delete images.
	WriteRoles   []string
	ReadyTimeout time.Duration
}

// Services groups the use cases served by the API.
type Services struct {
	Resolver port.ImageResolver
	Lister   port.ImageLister
	Fetcher  port.ImageFetcher
	Finder   port.ExternalImageFinder
	Updater  port.ImageUpdater
	Deleter  port.ImageDeleter
	Reporter port.UsageReporter
}

// NewServices builds every image use case on top of a single repository.
func NewServices(repo port.ImageRepository, tasks port.TaskDispatcher, defaultLimit, maxLimit int) Services {
	return Services{
		Resolver: imageSvc.NewImageResolver(repo, tasks, uuid.NewUUID),
		Lister:   imageSvc.NewImageLister(repo, defaultLimit, maxLimit),
		Fetcher:  imageSvc.NewImageFetcher(repo),
		Finder:   imageSvc.NewExternalImageFinder(repo),
		Updater:  imageSvc.NewImageUpdater(repo),
		Deleter:  imageSvc.NewImageDeleter(repo),
		Reporter: imageSvc.NewUsageReporter(repo),
	}
}

// New mounts the image routes under opts.APIPrefix, behind bearer auth,
// and the health and metrics endpoints at the root.
func New(ctx context.Context, opts Options, svc Services, checkers ...port.HealthChecker) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = defaultReadyTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cMiddleware.WithRequestID())
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cMiddleware.WithMetrics())

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Get("/health/live", api.LiveHandler())
	r.Get("/health/ready", api.ReadyHandler(opts.ReadyTimeout, checkers...))
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route(opts.APIPrefix, func(r chi.Router) {
		r.Use(cMiddleware.WithBearerAuth(opts.JWTPublicKey, opts.JWTIssuer, opts.JWTAudience))

		r.Get("/org/{orgUnitId}/images", api.ListImagesHandler(svc.Lister))
		r.Get("/org/{orgUnitId}/stats", api.UsageStatsHandler(svc.Reporter))
		r.Get("/mayo/{mayoImageId}/org/{orgUnitId}/exists", api.CheckExternalImageHandler(svc.Finder))

		r.With(cMiddleware.WithImageID()).
			Get("/images/{imageId}", api.GetImageHandler(svc.Fetcher))

		r.Group(func(r chi.Router) {
			r.Use(cMiddleware.RequireAnyRole(opts.WriteRoles...))

			r.Post("/images", api.CreateImageHandler(svc.Resolver))
			r.With(cMiddleware.WithImageID()).
				Put("/images/{imageId}", api.UpdateImageHandler(svc.Updater))
			r.With(cMiddleware.WithImageID()).
				Delete("/images/{imageId}", api.DeleteImageHandler(svc.Deleter))
		})
	})

	return r
}
