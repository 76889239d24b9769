package httpapi

import (
	"net/http"

	"acs-console/internal/control_plane/domain"
	"acs-console/internal/control_plane/usecases"
	"acs-console/internal/infra/httpserver"
	shareddomain "acs-console/internal/shared_kernel/domain"
	sharedhttpapi "acs-console/internal/shared_kernel/httpapi"
)

func NewStatisticsController(
	service usecases.CommandService,
	authenticator *sharedhttpapi.RequestAuthenticator,
) *StatisticsController {
	return &StatisticsController{
		service:       service,
		authenticator: authenticator,
	}
}

var _ httpserver.Controller = &StatisticsController{}

type StatisticsController struct {
	service       usecases.CommandService
	authenticator *sharedhttpapi.RequestAuthenticator
}

func (c *StatisticsController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/statistics/commands",
		c.authenticator.Require(shareddomain.PermissionViewDetails, c.commandStatistics()))
}

func (c *StatisticsController) commandStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := c.service.StatusCounts(r.Context())
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to compute statistics")
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, map[string]int64{
			"pending":   counts[domain.CommandStatusPending],
			"succeeded": counts[domain.CommandStatusSucceeded],
			"failed":    counts[domain.CommandStatusFailed],
		})
	}
}
