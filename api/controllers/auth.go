package controllers

import (
	"net/http"

	"github.com/riveroslabs/merchant-console-backend/api/responses"
	"github.com/riveroslabs/merchant-console-backend/api/validators"
	"github.com/riveroslabs/merchant-console-backend/internal/auth"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
)

type AuthController struct {
	service auth.Service
	logger  *logger.Logger
}

func NewAuthController(service auth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{service: service, logger: logg}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges staff credentials for an access token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body loginRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	token, err := c.service.Login(ctx, body.Email, body.Password)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, loginResponse{Token: token})
}
