package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/dmitrijs2005/crtrstudio/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	apiBasePath      = "/api"
	authBasePath     = "/auth"
	projectsBasePath = "/projects"
	healthPath       = "/health"

	paramID = "id"

	defaultRequestTimeout = 60 * time.Second
)

type RouterConfig struct {
	Users          UserService
	Tokens         TokenVerifier
	Logger         logging.Logger
	Environment    string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter builds the complete HTTP handler of the API.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	logger := cfg.Logger.With("module", "httpapi")
	errs := NewErrorWriter(logger, cfg.Environment == common.EnvDevelopment)
	authHandler := NewAuthHandler(cfg.Users)
	systemHandler := NewSystemHandler(cfg.Environment)
	requireAuth := RequireAuth(cfg.Tokens, errs)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(errs))
	r.Use(Timeout(timeout, errs))
	r.Use(middleware.SetHeader(HeaderContentType, ContentTypeJSONUTF8))
	r.Use(SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(errs.MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
		return common.NotFound("Not found")
	}))
	r.MethodNotAllowed(errs.MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
		return &common.AppError{Kind: common.KindInvalidInput, Status: http.StatusMethodNotAllowed, Message: "Method not allowed"}
	}))

	r.Get(healthPath, errs.MakeHandler(systemHandler.HandleHealth))

	r.Route(apiBasePath, func(r chi.Router) {
		r.With(OptionalAuth(cfg.Tokens)).Get("/", errs.MakeHandler(systemHandler.HandleInfo))

		r.Route(authBasePath, func(r chi.Router) {
			r.Post("/register", errs.MakeHandler(authHandler.HandleRegister))
			r.Post("/login", errs.MakeHandler(authHandler.HandleLogin))
			r.Post("/logout", errs.MakeHandler(authHandler.HandleLogout))
			r.With(requireAuth).Get("/me", errs.MakeHandler(authHandler.HandleMe))
		})

		r.Route(projectsBasePath, func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", errs.MakeHandler(handleListProjects))
			r.Post("/", errs.MakeHandler(handleCreateProject))
			r.Route("/{"+paramID+"}", func(r chi.Router) {
				r.Get("/", errs.MakeHandler(handleGetProject))
				r.Patch("/", errs.MakeHandler(handleUpdateProject))
				r.Delete("/", errs.MakeHandler(handleDeleteProject))
			})
		})
	})

	return r
}
