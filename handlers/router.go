package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"whtpst/core"
	"whtpst/handlers/api/pastes"
	"whtpst/handlers/health"
	"whtpst/handlers/index"
	"whtpst/handlers/middleware"
)

type Options struct {
	// Logger receives request logs. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// ContentRules applies to every paste body.
	ContentRules core.ContentRules
	// MaxBodyBytes bounds paste bodies; zero means unbounded.
	MaxBodyBytes int64
}

// NewRouter wires the paste API, the health probe and the landing page around repo.
func NewRouter(repo core.PasteRepository, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Origin", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/", index.HandleIndex())
	r.Get("/health", health.HandleHealth())

	r.Group(func(r chi.Router) {
		if opts.MaxBodyBytes > 0 {
			r.Use(chimiddleware.RequestSize(opts.MaxBodyBytes))
		}
		r.Post("/paste", pastes.HandleCreateRandomID(repo, opts.ContentRules))
		r.Post("/paste/{id}", pastes.HandleCreate(repo, opts.ContentRules))
		r.Get("/paste/{id}", pastes.HandleGet(repo))
	})

	return r
}
