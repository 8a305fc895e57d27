package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/riveroslabs/merchant-console-backend/api/responses"
	"github.com/riveroslabs/merchant-console-backend/api/validators"
	"github.com/riveroslabs/merchant-console-backend/internal/customers"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
)

// CustomersController exposes the aggregated customer views.
type CustomersController struct {
	service customers.Service
	logger  *logger.Logger
}

func NewCustomersController(service customers.Service, logg *logger.Logger) *CustomersController {
	return &CustomersController{service: service, logger: logg}
}

// List returns one summary row per gateway profile.
func (c *CustomersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := c.service.List(ctx)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, summaries)
}

// Detail returns the full aggregate for one profile.
func (c *CustomersController) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := chi.URLParam(r, "profileID")

	detail, err := c.service.GetDetail(ctx, profileID)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, detail)
}

type ensureProfileRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

// EnsureProfile probes by email and creates the profile when absent. A
// created profile answers 201, an existing one 200.
func (c *CustomersController) EnsureProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body ensureProfileRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	result, err := c.service.EnsureProfile(ctx, customers.EnsureProfileInput{
		Email:       body.Email,
		Description: body.Description,
	})
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	responses.WriteSuccessStatus(w, status, result)
}
