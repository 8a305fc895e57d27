package controllers

import (
	"context"
	"net/http"

	"github.com/riveroslabs/merchant-console-backend/api/responses"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes. Readiness checks
// the optional Redis dependency; the gateway is never probed because it is
// metered per call.
type HealthController struct {
	logger *logger.Logger
	redis  pinger
}

func NewHealthController(logg *logger.Logger, redis pinger) *HealthController {
	return &HealthController{logger: logg, redis: redis}
}

func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if c.redis != nil {
		if err := c.redis.Ping(ctx); err != nil {
			responses.WriteError(ctx, c.logger, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
			return
		}
	}
	responses.WriteSuccess(w, map[string]string{"status": "ready"})
}
