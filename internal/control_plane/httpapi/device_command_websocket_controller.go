package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"acs-console/internal/control_plane/usecases"
	"acs-console/internal/infra/httpserver"
	shareddomain "acs-console/internal/shared_kernel/domain"
	sharedhttpapi "acs-console/internal/shared_kernel/httpapi"
)

const (
	_wsWriteTimeout = 10 * time.Second
	_wsPongTimeout  = 60 * time.Second
	_wsPingInterval = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewDeviceCommandWebSocketController(
	hub usecases.SubscriptionHub,
	authenticator *sharedhttpapi.RequestAuthenticator,
) *DeviceCommandWebSocketController {
	return &DeviceCommandWebSocketController{
		hub:           hub,
		authenticator: authenticator,
	}
}

var _ httpserver.Controller = (*DeviceCommandWebSocketController)(nil)

// DeviceCommandWebSocketController streams command lifecycle events for one
// device to websocket clients. Events are live only; a client that connects
// after a transition will not see it.
type DeviceCommandWebSocketController struct {
	hub           usecases.SubscriptionHub
	authenticator *sharedhttpapi.RequestAuthenticator
}

func (c *DeviceCommandWebSocketController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /ws/devices/{device_id}/commands",
		c.authenticator.Require(shareddomain.PermissionViewDetails, c.handleWebSocket()))
}

func (c *DeviceCommandWebSocketController) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.PathValue("device_id")
		if deviceID == "" {
			http.Error(w, "device_id is required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		slog.Info("command websocket connection established",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("device_id", deviceID))

		subscription := c.hub.Subscribe(deviceID)
		go c.writePump(conn, deviceID, subscription)
		go c.readPump(conn, deviceID, subscription)
	}
}

// writePump forwards hub events to the client and keeps the connection alive
// with pings. It exits when the subscription channel closes or a write fails.
func (c *DeviceCommandWebSocketController) writePump(conn *websocket.Conn, deviceID string, subscription usecases.Subscription) {
	ticker := time.NewTicker(_wsPingInterval)
	defer func() {
		ticker.Stop()
		c.hub.Unsubscribe(deviceID, subscription)
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-subscription.Receiver:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(_wsWriteTimeout))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}

			conn.SetWriteDeadline(time.Now().Add(_wsWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				slog.Debug("websocket write failed", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(_wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs are processed and close frames end
// the subscription.
func (c *DeviceCommandWebSocketController) readPump(conn *websocket.Conn, deviceID string, subscription usecases.Subscription) {
	defer func() {
		c.hub.Unsubscribe(deviceID, subscription)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(_wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(_wsPongTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read error", slog.String("error", err.Error()))
			} else {
				slog.Debug("websocket connection closed", slog.String("error", err.Error()))
			}
			return
		}
	}
}
