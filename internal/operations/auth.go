package operations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mendizabala/dual/internal/auth"
	"mendizabala/dual/internal/crypto"
	"mendizabala/dual/internal/devlogin"
	"mendizabala/dual/internal/model"
	"mendizabala/dual/internal/otp"
	"mendizabala/dual/internal/repository"
)

type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) error
	AssignRoles(ctx context.Context, userID string, roleNames []string) ([]string, error)
	UserRoles(ctx context.Context, userID string) ([]string, error)
	GetTeacher(ctx context.Context, teacherID string) (model.Teacher, error)
	FindOrCreateTeacherByEmail(ctx context.Context, candidate model.Teacher) (model.Teacher, bool, error)
}

type CodeIssuer interface {
	IssueAndStore(ctx context.Context, email, code string) error
	VerifyAndConsume(ctx context.Context, email, code string) (bool, error)
}

type CodeMailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

type TokenIssuer interface {
	Issue(subjectID, email string, roles []string) (string, error)
	IssueDev(subjectID, email, role string) (string, error)
}

type AuthDeps struct {
	Store          CredentialStore
	Codes          CodeIssuer
	Mailer         CodeMailer
	Tokens         TokenIssuer
	Bypass         *devlogin.Bypass
	AllowedDomains []string
	EchoOTP        bool
	Logger         zerolog.Logger
}

// AuthFlow drives registration, password login, the emailed code login and
// identity resolution.
type AuthFlow struct {
	store    CredentialStore
	codes    CodeIssuer
	mailer   CodeMailer
	tokens   TokenIssuer
	bypass   *devlogin.Bypass
	domains  map[string]bool
	echoOTP  bool
	logger   zerolog.Logger
	generate func() (string, error)
	now      func() time.Time
}

func NewAuthFlow(deps AuthDeps) *AuthFlow {
	domains := make(map[string]bool, len(deps.AllowedDomains))
	for _, d := range deps.AllowedDomains {
		domains[strings.ToLower(strings.TrimSpace(d))] = true
	}
	return &AuthFlow{
		store:    deps.Store,
		codes:    deps.Codes,
		mailer:   deps.Mailer,
		tokens:   deps.Tokens,
		bypass:   deps.Bypass,
		domains:  domains,
		echoOTP:  deps.EchoOTP,
		logger:   deps.Logger,
		generate: otp.Generate,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Roles    []string
}

type RegisterResult struct {
	UserID string
	Roles  []string
}

type Session struct {
	Message string
	Token   string
	UserID  string
	Email   string
	Name    string
	Roles   []string
	Role    string
}

type OTPRequest struct {
	Message string
	// Code is only set when delivery failed outside production.
	Code string
}

type Profile struct {
	ID             string
	Email          string
	Name           string
	SubstituteName *string
	Roles          []string
	Dev            bool
}

func (f *AuthFlow) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	email := otp.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" || len(in.Roles) == 0 {
		return RegisterResult{}, fail(http.StatusBadRequest, ErrMissingFields)
	}
	if err := f.checkDomain(email); err != nil {
		return RegisterResult{}, err
	}

	if _, err := f.store.GetUserByEmail(ctx, email); err == nil {
		return RegisterResult{}, fail(http.StatusConflict, ErrEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return RegisterResult{}, internal(err)
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return RegisterResult{}, internal(err)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = localPart(email)
	}
	now := f.now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return RegisterResult{}, fail(http.StatusConflict, ErrEmailTaken)
		}
		return RegisterResult{}, internal(err)
	}

	assigned, err := f.store.AssignRoles(ctx, user.ID, normalizeRoles(in.Roles))
	if err != nil {
		return RegisterResult{}, internal(fmt.Errorf("assign roles: %w", err))
	}
	f.logger.Info().Str("user_id", user.ID).Strs("roles", assigned).Msg("user registered")
	return RegisterResult{UserID: user.ID, Roles: assigned}, nil
}

func (f *AuthFlow) Login(ctx context.Context, email, password string) (Session, error) {
	email = otp.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, fail(http.StatusBadRequest, ErrMissingFields)
	}

	user, err := f.store.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, fail(http.StatusUnauthorized, ErrInvalidCredentials)
	}
	if err != nil {
		return Session{}, internal(err)
	}
	if err := crypto.CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, fail(http.StatusUnauthorized, ErrInvalidCredentials)
	}

	roles, err := f.store.UserRoles(ctx, user.ID)
	if err != nil {
		return Session{}, internal(err)
	}
	token, err := f.tokens.Issue(user.ID, email, roles)
	if err != nil {
		return Session{}, internal(err)
	}
	return Session{
		Message: "Sesión iniciada",
		Token:   token,
		UserID:  user.ID,
		Email:   email,
		Name:    user.Name,
		Roles:   roles,
	}, nil
}

func (f *AuthFlow) RequestOTP(ctx context.Context, email string) (OTPRequest, error) {
	email = otp.NormalizeEmail(email)
	if email == "" {
		return OTPRequest{}, fail(http.StatusBadRequest, ErrMissingFields)
	}
	if err := f.checkDomain(email); err != nil {
		return OTPRequest{}, err
	}

	code, err := f.generate()
	if err != nil {
		return OTPRequest{}, internal(err)
	}
	if err := f.codes.IssueAndStore(ctx, email, code); err != nil {
		return OTPRequest{}, internal(err)
	}

	if err := f.mailer.SendOTP(ctx, email, code); err != nil {
		if !f.echoOTP {
			return OTPRequest{}, &Error{Code: ErrEmailDeliveryFailed, Status: http.StatusInternalServerError, Err: err}
		}
		f.logger.Warn().Err(err).Str("email", email).Msg("otp delivery failed, echoing code")
		return OTPRequest{
			Message: fmt.Sprintf("Código generado (desarrollo): %s", code),
			Code:    code,
		}, nil
	}
	return OTPRequest{Message: "Código enviado a tu email"}, nil
}

func (f *AuthFlow) VerifyOTP(ctx context.Context, email, code string) (Session, error) {
	email = otp.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return Session{}, fail(http.StatusBadRequest, ErrMissingFields)
	}

	if identity, ok := f.bypass.Lookup(code); ok {
		token, err := f.tokens.IssueDev(identity.UserID, email, identity.Role)
		if err != nil {
			return Session{}, internal(err)
		}
		f.logger.Warn().Str("role", identity.Role).Msg("development login code used")
		return Session{
			Message: fmt.Sprintf("Sesión iniciada (%s)", identity.Role),
			Token:   token,
			UserID:  identity.UserID,
			Email:   email,
			Name:    identity.Role,
			Roles:   []string{identity.Role},
			Role:    identity.Role,
		}, nil
	}

	ok, err := f.codes.VerifyAndConsume(ctx, email, code)
	if err != nil {
		return Session{}, internal(err)
	}
	if !ok {
		return Session{}, fail(http.StatusUnauthorized, ErrInvalidOrExpiredCode)
	}

	now := f.now().UTC()
	teacher, created, err := f.store.FindOrCreateTeacherByEmail(ctx, model.Teacher{
		ID:        uuid.NewString(),
		Name:      localPart(email),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Session{}, internal(err)
	}
	if created {
		f.logger.Info().Str("teacher_id", teacher.ID).Msg("teacher provisioned on first login")
	}

	roles := []string{model.RoleTeacher}
	token, err := f.tokens.Issue(teacher.ID, email, roles)
	if err != nil {
		return Session{}, internal(err)
	}
	return Session{
		Message: "Sesión iniciada",
		Token:   token,
		UserID:  teacher.ID,
		Email:   email,
		Name:    teacher.Name,
		Roles:   roles,
		Role:    model.RoleTeacher,
	}, nil
}

// Whoami resolves the token subject. Teachers are looked up first, then
// password accounts; development identities have no row and are synthesized.
func (f *AuthFlow) Whoami(ctx context.Context, claims *auth.Claims) (Profile, error) {
	if claims == nil {
		return Profile{}, fail(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
	}
	if claims.Dev {
		return Profile{
			ID:    claims.UserID,
			Email: claims.Email,
			Name:  strings.Join(claims.Roles, ","),
			Roles: claims.Roles,
			Dev:   true,
		}, nil
	}

	teacher, err := f.store.GetTeacher(ctx, claims.UserID)
	if err == nil {
		return Profile{
			ID:             teacher.ID,
			Email:          teacher.Email,
			Name:           teacher.Name,
			SubstituteName: teacher.SubstituteName,
			Roles:          claims.Roles,
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return Profile{}, internal(err)
	}

	user, err := f.store.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return Profile{}, fail(http.StatusNotFound, ErrUserNotFound)
	}
	if err != nil {
		return Profile{}, internal(err)
	}
	roles, err := f.store.UserRoles(ctx, user.ID)
	if err != nil {
		return Profile{}, internal(err)
	}
	return Profile{ID: user.ID, Email: user.Email, Name: user.Name, Roles: roles}, nil
}

func (f *AuthFlow) checkDomain(email string) error {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return fail(http.StatusBadRequest, ErrInvalidEmail)
	}
	if !f.domains[email[at+1:]] {
		return fail(http.StatusForbidden, ErrDomainNotAllowed)
	}
	return nil
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			out = append(out, r)
		}
	}
	return out
}
