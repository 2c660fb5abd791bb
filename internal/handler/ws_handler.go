package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/middleware"
	"github.com/uwplan/planner-backend/internal/response"
	"github.com/uwplan/planner-backend/internal/service"
	"github.com/uwplan/planner-backend/internal/validator"
	ws "github.com/uwplan/planner-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler re-validates a schedule on every edit a planner client sends.
// Each validate message counts against the limiter of the client IP.
type WSHandler struct {
	scheduleService service.ScheduleService
	limiter         *middleware.RateLimiter
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a WSHandler. limiter may be nil to disable limiting.
func NewWSHandler(
	scheduleService service.ScheduleService,
	limiter *middleware.RateLimiter,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		scheduleService: scheduleService,
		limiter:         limiter,
		log:             log.With().Str("component", "ws_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// ValidateStream godoc
// WS /ws/v1/schedules/validate
func (h *WSHandler) ValidateStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(ws.MaxMessageSize)

	wsLog := h.log.With().Str("conn_id", uuid.NewString()).Logger()
	wsLog.Debug().Str("remote", c.ClientIP()).Msg("Client connected")

	for {
		data, err := ws.ReadMessage(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var env ws.RequestEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			ws.WriteError(conn, "", string(response.ErrInvalidPayload), response.GetMessage(response.ErrInvalidPayload), nil)
			continue
		}

		switch env.Action {
		case ws.ActionValidate:
			if h.limiter != nil && !h.limiter.Allow(c, c.ClientIP()) {
				ws.WriteError(conn, env.ID, string(response.ErrRateLimitExceeded), response.GetMessage(response.ErrRateLimitExceeded), nil)
				continue
			}
			h.handleValidate(c, conn, wsLog, env.ID, data)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong, ID: env.ID})
		default:
			wsLog.Debug().Str("action", string(env.Action)).Msg("Unknown action")
			ws.WriteError(conn, env.ID, string(response.ErrUnknownAction), "unknown action: "+string(env.Action), nil)
		}
	}
}

func (h *WSHandler) handleValidate(c *gin.Context, conn *websocket.Conn, wsLog zerolog.Logger, id string, data []byte) {
	var req ws.ValidateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		ws.WriteError(conn, id, string(response.ErrInvalidPayload), response.GetMessage(response.ErrInvalidPayload),
			map[string]string{"detail": err.Error()})
		return
	}
	if fields := validator.Struct(&req.ValidateScheduleRequest); fields != nil {
		ws.WriteError(conn, id, string(response.ErrValidation), response.GetMessage(response.ErrValidation), fields)
		return
	}

	out, err := h.scheduleService.Validate(c.Request.Context(), &req.ValidateScheduleRequest)
	if err != nil {
		_, code := validationErrorStatus(err)
		if code == response.ErrInternal {
			wsLog.Error().Err(err).Str("degree", req.Degree).Msg("Schedule validation failed")
		}
		ws.WriteError(conn, id, string(code), response.GetMessage(code), nil)
		return
	}

	ws.WriteTyped(conn, ws.ValidatedResponse{Event: ws.EventValidated, ID: id, Result: out})
}
