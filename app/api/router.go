package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/generation/farmacia/app/categories"
	"github.com/generation/farmacia/app/middleware"
	"github.com/generation/farmacia/app/products"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter wires the category and product handlers behind the common middleware stack.
func NewRouter(cats categories.CategoryProvider, prods products.ProductProvider, log *slog.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", NewHealthHandler(log).ServeHTTP)
	r.Route("/categorias", categories.NewCategoryHandler(cats, log).Routes)
	r.Route("/produtos", products.NewProductHandler(prods, log).Routes)

	return r
}
