package http

import (
	"net/http"

	"mendizabala/dual/internal/operations"
)

type registerRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
}

type registerResponse struct {
	Message string   `json:"message"`
	UserID  string   `json:"userId"`
	Roles   []string `json:"roles"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpRequest struct {
	Email string `json:"email"`
}

type otpResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type sessionResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	UserID  string   `json:"userId"`
	Email   string   `json:"email"`
	Name    string   `json:"name,omitempty"`
	Roles   []string `json:"roles"`
	Role    string   `json:"role,omitempty"`
}

type profileResponse struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	SubstituteName *string  `json:"substitute_name"`
	Roles          []string `json:"roles"`
	Dev            bool     `json:"dev,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	res, err := s.auth.Register(r.Context(), operations.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Roles:    req.Roles,
	})
	if err != nil {
		s.metrics.AuthAttempt("register", operations.AsError(err).Code)
		s.writeOpError(w, r, err)
		return
	}
	s.metrics.AuthAttempt("register", "success")
	writeJSON(w, http.StatusOK, registerResponse{Message: "Usuario registrado", UserID: res.UserID, Roles: nonNil(res.Roles)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.metrics.AuthAttempt("login", operations.AsError(err).Code)
		s.writeOpError(w, r, err)
		return
	}
	s.metrics.AuthAttempt("login", "success")
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	res, err := s.auth.RequestOTP(r.Context(), req.Email)
	if err != nil {
		s.metrics.AuthAttempt("request_otp", operations.AsError(err).Code)
		s.writeOpError(w, r, err)
		return
	}
	s.metrics.OTPIssued()
	writeJSON(w, http.StatusOK, otpResponse{Message: res.Message, Code: res.Code})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	session, err := s.auth.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		s.metrics.AuthAttempt("verify_otp", operations.AsError(err).Code)
		s.writeOpError(w, r, err)
		return
	}
	s.metrics.AuthAttempt("verify_otp", "success")
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	profile, err := s.auth.Whoami(r.Context(), claimsFromContext(r.Context()))
	if err != nil {
		s.writeOpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		ID:             profile.ID,
		Email:          profile.Email,
		Name:           profile.Name,
		SubstituteName: profile.SubstituteName,
		Roles:          nonNil(profile.Roles),
		Dev:            profile.Dev,
	})
}

func toSessionResponse(session operations.Session) sessionResponse {
	return sessionResponse{
		Message: session.Message,
		Token:   session.Token,
		UserID:  session.UserID,
		Email:   session.Email,
		Name:    session.Name,
		Roles:   nonNil(session.Roles),
		Role:    session.Role,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
