// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trancanh/havenest/internal/platform/apperr"
	"github.com/trancanh/havenest/internal/platform/constants"
	"github.com/trancanh/havenest/internal/platform/middleware"
	requestutil "github.com/trancanh/havenest/internal/platform/request"
	"github.com/trancanh/havenest/internal/platform/respond"
	"github.com/trancanh/havenest/internal/platform/validate"
)

// # Request Payloads

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetTokenRequest struct {
	ResetToken string `json:"resetToken"`
}

// # Handler

// Handler exposes the account-lifecycle operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the auth HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes assembles the /api/auth router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/pre-register", handler.preRegister)
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/access-account", handler.accessAccount)
	router.Get("/refreshToken", handler.refreshSession)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/", handler.welcome)
	})

	return router
}

// welcome is a protected smoke endpoint used by clients to probe whether
// their session token is still accepted.
func (handler *Handler) welcome(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Welcome to Havenest",
		FieldUser:    claims.UserID,
	})
}

// preRegister starts the registration flow and emails an activation link.
func (handler *Handler) preRegister(writer http.ResponseWriter, request *http.Request) {
	var payload credentialsRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New().
		Email(FieldEmail, payload.Email).
		MinLen(FieldPassword, payload.Password, MinPasswordLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	sent, err := handler.service.PreRegister(request.Context(), payload.Email, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{FieldOK: sent})
}

// register redeems an activation token and opens the first session.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var payload tokenRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New().Required(FieldToken, payload.Token)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Register(request.Context(), payload.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// login authenticates an email/password pair.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var payload credentialsRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New().
		Email(FieldEmail, payload.Email).
		Required(FieldPassword, payload.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), payload.Email, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// forgotPassword opens a reset window and emails the access link.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var payload emailRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New().Email(FieldEmail, payload.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	sent, err := handler.service.ForgotPassword(request.Context(), payload.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{FieldOK: sent})
}

// accessAccount redeems a reset token and opens a recovery session.
func (handler *Handler) accessAccount(writer http.ResponseWriter, request *http.Request) {
	var payload resetTokenRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New().Required(FieldToken, payload.ResetToken)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.AccessAccount(request.Context(), payload.ResetToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// refreshSession exchanges the refresh_token header for a fresh pair.
func (handler *Handler) refreshSession(writer http.ResponseWriter, request *http.Request) {
	refreshToken := request.Header.Get(constants.RefreshTokenHeader)
	if refreshToken == "" {
		respond.Error(writer, request, apperr.Forbidden("Refresh token failed"))
		return
	}

	session, err := handler.service.RefreshSession(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}
