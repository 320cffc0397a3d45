// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trancanh/havenest/internal/platform/middleware"
	requestutil "github.com/trancanh/havenest/internal/platform/request"
	"github.com/trancanh/havenest/internal/platform/respond"
	"github.com/trancanh/havenest/internal/platform/validate"
	"github.com/trancanh/havenest/internal/users/auth"
)

// Handler implements the HTTP layer for profile management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
// Public profile discovery is the only route that skips authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/profile/{username}", handler.getPublicProfile)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.getMe)
		protected.Put("/profile", handler.updateProfile)
		protected.Put("/password", handler.updatePassword)
	})

	return router
}

// # Profile Endpoints

/*
GET /api/account/me.

Description: Retrieves the private profile of the authenticated user.

Response:
  - 200: Account: Sanitized profile
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Session outlived the account
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.CurrentUser(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
GET /api/account/profile/{username}.

Description: Retrieves the public view of an account by username.

Response:
  - 200: Account: Sanitized profile
  - 404: ErrNotFound: No account owns the username
*/
func (handler *Handler) getPublicProfile(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	validator := validate.New().Required(auth.FieldUsername, username)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.PublicProfile(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// updateProfileRequest defines the expected JSON payload for profile updates.
// Absent fields are left unchanged.
type updateProfileRequest struct {
	Username *string  `json:"username"`
	Name     *string  `json:"name"`
	Address  *string  `json:"address"`
	Company  *string  `json:"company"`
	Phone    *string  `json:"phone"`
	Photo    *string  `json:"photo"`
	Roles    []string `json:"role"`
}

/*
PUT /api/account/profile.

Description: Applies partial updates to the authenticated user's profile.
The role list may only be changed by administrators.

Request:
  - body: updateProfileRequest (Partial JSON)

Response:
  - 200: Account: The updated, sanitized profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 403: ErrForbidden: Role change without Admin
  - 409: ErrConflict: Username is taken
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New()
	if input.Username != nil {
		validator.Username(auth.FieldUsername, *input.Username)
	}
	if input.Phone != nil {
		validator.MaxLen("phone", *input.Phone, 32)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.UpdateProfile(request.Context(), accountID, UpdateProfileInput{
		Username: input.Username,
		Name:     input.Name,
		Address:  input.Address,
		Company:  input.Company,
		Phone:    input.Phone,
		Photo:    input.Photo,
		Roles:    input.Roles,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// updatePasswordRequest defines the expected JSON payload for password changes.
type updatePasswordRequest struct {
	Password string `json:"password"`
}

/*
PUT /api/account/password.

Description: Replaces the authenticated user's password.

Request:
  - body: updatePasswordRequest

Response:
  - 200: ok envelope
  - 400: Validation: Password shorter than the minimum
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New().MinLen(auth.FieldPassword, input.Password, auth.MinPasswordLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.UpdatePassword(request.Context(), accountID, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{auth.FieldOK: true})
}
