package httpapi

import (
	"errors"
	"net/http"

	"acs-console/internal/acs"
	"acs-console/internal/control_plane/usecases"
	"acs-console/internal/infra/httpserver"
	shareddomain "acs-console/internal/shared_kernel/domain"
	sharedhttpapi "acs-console/internal/shared_kernel/httpapi"
)

func NewDeviceController(
	service usecases.DeviceService,
	authenticator *sharedhttpapi.RequestAuthenticator,
) *DeviceController {
	return &DeviceController{
		service:       service,
		authenticator: authenticator,
	}
}

var _ httpserver.Controller = &DeviceController{}

// DeviceController is a cached passthrough to the ACS device inventory.
type DeviceController struct {
	service       usecases.DeviceService
	authenticator *sharedhttpapi.RequestAuthenticator
}

func (c *DeviceController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/devices",
		c.authenticator.Require("", c.listDevices()))
	router.Handle("GET /v1/devices/{device_id}",
		c.authenticator.Require(shareddomain.PermissionViewDetails, c.getDevice()))
}

func (c *DeviceController) listDevices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		devices, err := c.service.AllDevices(r.Context())
		if err != nil {
			replyDeviceError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, devices)
	}
}

func (c *DeviceController) getDevice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		device, err := c.service.GetDevice(r.Context(), r.PathValue("device_id"))
		if err != nil {
			replyDeviceError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, device)
	}
}

func replyDeviceError(w http.ResponseWriter, err error) {
	var upstreamErr *acs.UpstreamError
	switch {
	case errors.Is(err, acs.ErrDeviceNotFound):
		httpserver.ReplyWithError(w, http.StatusNotFound, "device not found")
	case errors.As(err, &upstreamErr):
		httpserver.ReplyWithError(w, http.StatusBadGateway, upstreamErr.Error())
	case errors.Is(err, acs.ErrUpstreamUnreachable), errors.Is(err, acs.ErrMalformedResponse):
		httpserver.ReplyWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to query devices")
	}
}
