package server

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/argo-platform/program-service/api/program/v1/programv1connect"
)

// RouterOptions controls the construction of the program service HTTP router.
// The zero value is valid; sensible defaults are applied where fields are not set.
type RouterOptions struct {
	Programs   ProgramService
	References ReferenceService
	Logger     *slog.Logger

	CORSOptions *cors.Options
	// Middleware are appended after the default middleware stack
	// (RequestID, RealIP, Logger, Recoverer, CORS) and apply to every route.
	Middleware []func(http.Handler) http.Handler
	// HTTPAuthn guards the plain HTTP API routes (not Connect, which uses
	// ConnectInterceptors). Nil leaves them unauthenticated.
	HTTPAuthn           func(http.Handler) http.Handler
	ConnectInterceptors []connect.Interceptor
	HealthHandler       http.HandlerFunc
	ExtraRoutes         func(chi.Router)
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			"Connect-Protocol",
			"Connect-Content-Encoding",
			"Grpc-Timeout",
			"X-Grpc-Web",
			"X-User-Agent",
			"Authorization",
		},
		ExposedHeaders: []string{
			"Connect-Protocol-Version",
			"Connect-Content-Encoding",
			"Connect-Protocol",
			"Grpc-Status",
			"Grpc-Message",
			"Grpc-Status-Details-Bin",
			"WWW-Authenticate",
		},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// the program service handlers mounted.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	if opts.Programs != nil && opts.References != nil {
		MountConnectHandlers(r, opts)
	}

	r.Group(func(r chi.Router) {
		if opts.HTTPAuthn != nil {
			r.Use(opts.HTTPAuthn)
		}
		r.Get("/api/auth/whoami", HandleWhoAmI)
	})

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)

	if opts.ExtraRoutes != nil {
		opts.ExtraRoutes(r)
	}

	return r
}

// NewH2CHandler wraps the shared router with an h2c server to provide HTTP/2 over
// cleartext, matching the expectations of Connect clients during development.
func NewH2CHandler(opts RouterOptions) http.Handler {
	return h2c.NewHandler(NewRouter(opts), &http2.Server{})
}

// MountConnectHandlers mounts Connect RPC handlers on the provided router.
func MountConnectHandlers(r chi.Router, opts RouterOptions) {
	handler := NewProgramServiceHandler(opts.Programs, opts.References, opts.Logger)
	path, h := programv1connect.NewProgramServiceHandler(
		handler,
		connect.WithInterceptors(opts.ConnectInterceptors...),
	)
	r.Mount(path, h)
}
