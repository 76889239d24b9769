package httpapi

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"acs-console/internal/control_plane/httpapi/internal"
	"acs-console/internal/control_plane/usecases"
	"acs-console/internal/infra/httpserver"
)

const _webhookSecretHeader = "X-Webhook-Secret"

func NewWebhookController(service usecases.TaskResultService, secret string) *WebhookController {
	return &WebhookController{
		service: service,
		secret:  secret,
	}
}

var _ httpserver.Controller = &WebhookController{}

// WebhookController receives task completion callbacks from the ACS. The
// endpoint is authenticated with a shared secret, not a user token, since the
// caller is the ACS itself.
type WebhookController struct {
	service usecases.TaskResultService
	secret  string
}

func (c *WebhookController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/webhooks/task-result", c.handleTaskResult())
}

// handleTaskResult acknowledges every authenticated report with 204, whether
// or not it correlated to a command. The ACS does not retry and a non-2xx
// would only make it drop the report anyway.
func (c *WebhookController) handleTaskResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(_webhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(c.secret)) != 1 {
			httpserver.ReplyWithError(w, http.StatusUnauthorized, "invalid webhook secret")
			return
		}

		var body internal.WebhookTaskResultRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			slog.Warn("malformed webhook payload", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if body.DeviceID == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		err := c.service.HandleTaskResult(r.Context(), usecases.TaskResultReport{
			DeviceID: body.DeviceID,
			Fault:    body.Fault,
		})
		if err != nil {
			slog.Error("handling task result",
				slog.String("device_id", body.DeviceID),
				slog.String("error", err.Error()))
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
