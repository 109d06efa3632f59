package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"mendizabala/dual/internal/auth"
	"mendizabala/dual/internal/config"
	"mendizabala/dual/internal/metrics"
	"mendizabala/dual/internal/model"
	"mendizabala/dual/internal/operations"
	"mendizabala/dual/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, in operations.RegisterInput) (operations.RegisterResult, error)
	Login(ctx context.Context, email, password string) (operations.Session, error)
	RequestOTP(ctx context.Context, email string) (operations.OTPRequest, error)
	VerifyOTP(ctx context.Context, email, code string) (operations.Session, error)
	Whoami(ctx context.Context, claims *auth.Claims) (operations.Profile, error)
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type TeacherStore interface {
	ListTeachers(ctx context.Context, query string) ([]model.Teacher, error)
	CreateTeacher(ctx context.Context, teacher model.Teacher) (model.Teacher, error)
	UpdateTeacher(ctx context.Context, teacherID string, update repository.TeacherUpdate) (model.Teacher, error)
	DeleteTeacher(ctx context.Context, teacherID string) error
}

type CompanyStore interface {
	ListCompanies(ctx context.Context, filter repository.CompanyFilter) ([]model.Company, error)
	CreateCompany(ctx context.Context, company model.Company) (model.Company, error)
	UpdateCompany(ctx context.Context, companyID string, update repository.CompanyUpdate) (model.Company, error)
	DeleteCompany(ctx context.Context, companyID string) error
	SetAssignedTeacher(ctx context.Context, companyID string, teacherID *string) (model.Company, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth      AuthService
	Tokens    TokenVerifier
	Teachers  TeacherStore
	Companies CompanyStore
	Health    Pinger
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

type Server struct {
	cfg       config.Config
	auth      AuthService
	tokens    TokenVerifier
	teachers  TeacherStore
	companies CompanyStore
	health    Pinger
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	validate  *validator.Validate
	now       func() time.Time
}

func NewServer(cfg config.Config, deps Deps) *Server {
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		cfg:       cfg,
		auth:      deps.Auth,
		tokens:    deps.Tokens,
		teachers:  deps.Teachers,
		companies: deps.Companies,
		health:    deps.Health,
		metrics:   m,
		logger:    deps.Logger,
		validate:  newValidator(),
		now:       time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	if s.cfg.APIPrefix == "" {
		s.mountAPI(r)
	} else {
		r.Route(s.cfg.APIPrefix, s.mountAPI)
	}
	return r
}

func (s *Server) mountAPI(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/request-otp", s.handleRequestOTP)
		r.Post("/verify-otp", s.handleVerifyOTP)
		r.With(s.authMiddleware).Get("/me", s.handleMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/teachers", func(r chi.Router) {
			r.Get("/", s.handleListTeachers)
			r.Post("/", s.handleCreateTeacher)
			r.Put("/{teacherId}", s.handlePatchTeacher)
			r.Delete("/{teacherId}", s.handleDeleteTeacher)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", s.handleListCompanies)
			r.Post("/", s.handleCreateCompany)
			r.Put("/{companyId}", s.handlePatchCompany)
			r.Delete("/{companyId}", s.handleDeleteCompany)
			r.Put("/{companyId}/assignment", s.handleAssignCompany)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "message": "database unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Mendizabala Backend running"})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := s.now().Sub(start)
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		s.metrics.ObserveRequest(r.Method, route, status, elapsed)

		event := s.logger.Info()
		if status >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("request")
	})
}

// writeOpError maps an operations error to its status and code. Unexpected
// causes are logged and never reach the client.
func (s *Server) writeOpError(w http.ResponseWriter, r *http.Request, err error) {
	opErr := operations.AsError(err)
	if opErr.Status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg(opErr.Code)
	}
	writeError(w, opErr.Status, opErr.Code)
}

// writeStoreError maps repository sentinels; notFound names the 404 code.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "email_already_exists")
	case errors.Is(err, repository.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, operations.ErrUnknownTeacher)
	default:
		s.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("store error")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

// decodeOptionalJSON treats an empty body as an empty object.
func decodeOptionalJSON(r *http.Request, out interface{}) error {
	err := decodeJSON(r, out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
