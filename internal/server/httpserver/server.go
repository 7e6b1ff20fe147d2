// Package httpserver exposes the skywatch JSON API over HTTP.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

// Options carries the HTTP-level settings taken from config.
type Options struct {
	Address      string
	SecretKey    string
	CookieSecure bool
	CORSOrigin   string
}

type HTTPServer struct {
	address      string
	users        UserService
	alerts       AlertService
	weather      WeatherService
	logger       logging.Logger
	jwtSecret    []byte
	cookieSecure bool
	corsOrigin   string
}

func NewHTTPServer(opts Options, l logging.Logger, us UserService, as AlertService, ws WeatherService) *HTTPServer {
	return &HTTPServer{
		address:      opts.Address,
		logger:       l.With("module", "http_server"),
		users:        us,
		alerts:       as,
		weather:      ws,
		jwtSecret:    []byte(opts.SecretKey),
		cookieSecure: opts.CookieSecure,
		corsOrigin:   opts.CORSOrigin,
	}
}

// Handler returns the routed API with request logging and, when an origin
// is configured, credentialed CORS.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	r.HandleFunc("/ping", s.ping).Methods(http.MethodGet)

	r.Handle("/welcome", s.requireSession(http.HandlerFunc(s.welcome))).Methods(http.MethodGet)
	r.HandleFunc("/get-weather", s.getWeather).Methods(http.MethodPost)
	r.HandleFunc("/alert", s.createAlert).Methods(http.MethodPost)
	r.HandleFunc("/get-alert", s.getAlert).Methods(http.MethodGet)

	if s.corsOrigin == "" {
		return r
	}

	return handlers.CORS(
		handlers.AllowedOrigins([]string{s.corsOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)(r)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-shutdownErr
}
