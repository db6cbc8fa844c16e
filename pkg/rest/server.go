package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/edgeflare/passgen/pkg/httputil"
	mw "github.com/edgeflare/passgen/pkg/httputil/middleware"
	"github.com/edgeflare/passgen/pkg/metrics"
	"github.com/edgeflare/passgen/pkg/passgen"
	"go.uber.org/zap"
)

const (
	defaultBaseURL  = "/v1"
	defaultMaxCount = 100

	// metricsSource labels generation metrics recorded by this package.
	metricsSource = "rest"
)

type Server struct {
	gen        *passgen.Generator
	router     *httputil.Router
	logger     *zap.Logger
	middleware []httputil.Middleware
	routerOpts []httputil.RouterOptions
	defaults   passgen.Request
	baseURL    string
	maxCount   int
}

// Option configures a Server.
type Option func(*Server)

// WithBaseURL sets the path prefix of the API routes.
func WithBaseURL(baseURL string) Option {
	return func(s *Server) {
		s.baseURL = "/" + strings.Trim(baseURL, "/")
		if s.baseURL == "/" {
			s.baseURL = ""
		}
	}
}

// WithMaxCount bounds the number of passwords per request.
func WithMaxCount(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxCount = n
		}
	}
}

// WithDefaults sets the request used for parameters a client omits.
func WithDefaults(req passgen.Request) Option {
	return func(s *Server) {
		s.defaults = req
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMiddleware wraps the API routes. Middleware runs in the order given.
func WithMiddleware(m ...httputil.Middleware) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, m...)
	}
}

// WithRouterOptions passes options such as httputil.WithTLS to the router.
func WithRouterOptions(opts ...httputil.RouterOptions) Option {
	return func(s *Server) {
		s.routerOpts = append(s.routerOpts, opts...)
	}
}

// NewServer returns a Server generating passwords with gen.
func NewServer(gen *passgen.Generator, opts ...Option) *Server {
	s := &Server{
		gen:      gen,
		logger:   zap.NewNop(),
		defaults: passgen.NewRequest(16, passgen.AllClasses[:]...),
		baseURL:  defaultBaseURL,
		maxCount: defaultMaxCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = passgen.New(passgen.WithLogger(s.logger))
	}

	s.router = httputil.NewRouter(append([]httputil.RouterOptions{httputil.WithLogger(s.logger)}, s.routerOpts...)...)
	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	// probes bypass auth and request logging
	s.router.HandleFunc("GET /healthz", s.handleHealth)

	api := s.router.Group(s.baseURL)
	api.Use(func(next http.Handler) http.Handler {
		return mw.Chain(next, s.middleware...)
	}, mw.NoStore)

	api.HandleFunc("GET /passwords", s.handleGenerateQuery)
	api.HandleFunc("POST /passwords", s.handleGenerateJSON)
	api.HandleFunc("POST /passwords/check", s.handleCheck)
	api.HandleFunc("GET /classes", s.handleClasses)
	// answered by the CORS middleware when installed
	api.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Handler returns the server's routes as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	return s.router.ListenAndServe(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.router.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerateQuery(w http.ResponseWriter, r *http.Request) {
	req := GenerateRequest{Request: s.defaults}
	if err := decodeQuery(r.URL.Query(), &req); err != nil {
		metrics.ObserveGeneration(metricsSource, errorCode(err), time.Now())
		s.writeError(w, r, err)
		return
	}
	s.generate(w, r, req)
}

func (s *Server) handleGenerateJSON(w http.ResponseWriter, r *http.Request) {
	req := GenerateRequest{Request: s.defaults}
	if err := decodeBody(r, w, &req); err != nil {
		metrics.ObserveGeneration(metricsSource, errorCode(err), time.Now())
		s.writeError(w, r, err)
		return
	}
	s.generate(w, r, req)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request, req GenerateRequest) {
	start := time.Now()

	count, err := normalizeCount(req.Count, s.maxCount)
	if err == nil {
		var passwords []string
		passwords, err = s.gen.GenerateN(r.Context(), req.Request, count)
		if err == nil {
			metrics.ObserveGeneration(metricsSource, "", start)
			s.writePasswords(w, r, req.Request, passwords)
			return
		}
	}

	metrics.ObserveGeneration(metricsSource, errorCode(err), start)
	s.writeError(w, r, err)
}

func (s *Server) writePasswords(w http.ResponseWriter, r *http.Request, req passgen.Request, passwords []string) {
	if negotiateFormat(r) == formatText {
		httputil.Text(w, http.StatusOK, strings.Join(passwords, "\n")+"\n")
		return
	}
	httputil.JSON(w, http.StatusOK, GenerateResponse{
		Passwords: passwords,
		Length:    req.Length,
		Classes:   classNames(req.Classes()),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := httputil.BindOrError(r, w, &req); err != nil {
		return
	}

	required := req.required()
	present := passgen.Classes(req.Password)
	missing := required &^ present

	resp := CheckResponse{
		Valid:   missing == 0,
		Length:  utf8.RuneCountInString(req.Password),
		Classes: classNames(present),
		Missing: classNames(missing),
	}
	metrics.CheckedPasswords.WithLabelValues(strconv.FormatBool(resp.Valid)).Inc()
	httputil.JSON(w, http.StatusOK, resp)
}

func (s *Server) handleClasses(w http.ResponseWriter, _ *http.Request) {
	classes := make([]ClassInfo, 0, len(passgen.AllClasses))
	for _, c := range passgen.AllClasses {
		classes = append(classes, ClassInfo{Name: c.String(), Alphabet: c.Alphabet(), Weight: c.Weight()})
	}
	httputil.JSON(w, http.StatusOK, classes)
}

// writeError maps err to a status code: request errors are 400, an exhausted
// attempt budget is 503 and anything else is 500 with the cause only logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errorCode(err)
	logger := s.requestLogger(r)

	switch {
	case code == CodeInvalidCount || code == CodeInvalidParameter || passgen.IsRequestError(err):
		httputil.ErrorWithReason(w, http.StatusBadRequest, code, err.Error())
	case code == passgen.CodeTooManyIterations:
		logger.Warn("password generation exhausted", zap.Error(err))
		httputil.ErrorWithReason(w, http.StatusServiceUnavailable, code, err.Error())
	case errors.Is(err, context.Canceled):
		logger.Debug("client went away", zap.Error(err))
	default:
		logger.Error("password generation failed", zap.Error(err))
		msg := http.StatusText(http.StatusInternalServerError)
		if id := httputil.RequestID(r); id != "" {
			msg += " (request " + id + ")"
		}
		httputil.ErrorWithReason(w, http.StatusInternalServerError, code, msg)
	}
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if logger, ok := r.Context().Value(httputil.LogEntryCtxKey).(*zap.Logger); ok {
		return logger
	}
	return s.logger
}
