package httpapi

import (
	"errors"
	"net/http"

	"acs-console/internal/acs"
	"acs-console/internal/control_plane/domain"
	"acs-console/internal/control_plane/httpapi/internal"
	"acs-console/internal/control_plane/usecases"
	"acs-console/internal/infra/httpserver"
	shareddomain "acs-console/internal/shared_kernel/domain"
	sharedhttpapi "acs-console/internal/shared_kernel/httpapi"
)

const (
	_defaultCommandHistoryLimit = 50

	// TR-069 parameter path for the primary WLAN pre-shared key.
	_wifiPresharedKeyPath = "InternetGatewayDevice.LANDevice.1.WLANConfiguration.1.PreSharedKey.1.PreSharedKey"
)

func NewCommandController(
	service usecases.CommandService,
	authenticator *sharedhttpapi.RequestAuthenticator,
) *CommandController {
	return &CommandController{
		service:       service,
		authenticator: authenticator,
	}
}

var _ httpserver.Controller = &CommandController{}

type CommandController struct {
	service       usecases.CommandService
	authenticator *sharedhttpapi.RequestAuthenticator
}

func (c *CommandController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/commands",
		c.authenticator.Require(shareddomain.PermissionTaskWifi, c.dispatchCommand()))
	router.Handle("POST /v1/devices/{device_id}/commands/change-wifi-password",
		c.authenticator.Require(shareddomain.PermissionTaskWifi, c.changeWifiPassword()))
	router.Handle("DELETE /v1/commands/{id}",
		c.authenticator.Require(shareddomain.PermissionTaskDelete, c.cancelCommand()))
	router.Handle("GET /v1/devices/{device_id}/commands",
		c.authenticator.Require(shareddomain.PermissionViewDetails, c.listDeviceCommands()))
}

func (c *CommandController) dispatchCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.CommandCreateRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.DeviceID == "" || body.Kind == "" {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "device_id and kind are required")
			return
		}

		c.dispatch(w, r, usecases.DispatchInput{
			DeviceID:   body.DeviceID,
			Kind:       body.Kind,
			Parameters: body.Parameters,
		})
	}
}

// changeWifiPassword is a convenience wrapper over dispatchCommand that
// builds the setParameterValues task for the primary WLAN pre-shared key.
func (c *CommandController) changeWifiPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.PathValue("device_id")

		var body internal.WifiPasswordRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(body.Password) < 8 {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}

		c.dispatch(w, r, usecases.DispatchInput{
			DeviceID: deviceID,
			Kind:     "setParameterValues",
			Parameters: map[string]any{
				"parameterValues": []any{
					[]any{_wifiPresharedKeyPath, body.Password, "xsd:string"},
				},
			},
		})
	}
}

func (c *CommandController) dispatch(w http.ResponseWriter, r *http.Request, input usecases.DispatchInput) {
	if principal, ok := sharedhttpapi.PrincipalFromContext(r.Context()); ok {
		input.RequestedBy = domain.ID(principal.ID.String())
	}

	command, err := c.service.Dispatch(r.Context(), input)
	if err != nil {
		replyDispatchError(w, err)
		return
	}

	httpserver.ReplyJSONResponse(w, http.StatusAccepted, internal.FromCommand(command))
}

func replyDispatchError(w http.ResponseWriter, err error) {
	var upstreamErr *acs.UpstreamError
	switch {
	case errors.Is(err, usecases.ErrCommandAlreadyPending):
		httpserver.ReplyWithError(w, http.StatusConflict, err.Error())
	case errors.As(err, &upstreamErr):
		httpserver.ReplyWithError(w, http.StatusBadGateway, upstreamErr.Error())
	case errors.Is(err, acs.ErrUpstreamUnreachable), errors.Is(err, acs.ErrMalformedResponse):
		httpserver.ReplyWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to dispatch command")
	}
}

func (c *CommandController) cancelCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := c.service.Cancel(r.Context(), domain.ID(r.PathValue("id")))
		var upstreamErr *acs.UpstreamError
		switch {
		case errors.Is(err, usecases.ErrCommandNotFound):
			httpserver.ReplyWithError(w, http.StatusNotFound, "command not found")
			return
		case errors.Is(err, usecases.ErrCommandNotPending):
			httpserver.ReplyWithError(w, http.StatusBadRequest, "command is not pending")
			return
		case errors.As(err, &upstreamErr):
			httpserver.ReplyWithError(w, http.StatusBadGateway, upstreamErr.Error())
			return
		case errors.Is(err, acs.ErrUpstreamUnreachable):
			httpserver.ReplyWithError(w, http.StatusServiceUnavailable, err.Error())
			return
		case err != nil:
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to cancel command")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *CommandController) listDeviceCommands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.PathValue("device_id")
		limit := httpserver.GetQueryParamInt(r, "limit", _defaultCommandHistoryLimit)

		commands, err := c.service.RecentByDevice(r.Context(), deviceID, limit)
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to list commands")
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromCommands(commands))
	}
}
