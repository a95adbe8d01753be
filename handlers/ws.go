package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler streams notifications to connected clients. Each connection
// belongs to one user; it also serves as the services' Notifier.
type WSHandler struct {
	M      *melody.Melody
	tokens *utils.TokenIssuer
}

func NewWSHandler(tokens *utils.TokenIssuer) *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 4096

	// Keep-alive for hosted proxies that drop idle connections
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		utils.LogWebSocket("connect", sessionUser(s))
	})
	m.HandleDisconnect(func(s *melody.Session) {
		utils.LogWebSocket("disconnect", sessionUser(s))
	})
	m.HandleError(func(s *melody.Session, err error) {
		utils.SafeWarn("websocket error for %s: %v", utils.MaskID(sessionUser(s)), err)
	})

	return &WSHandler{M: m, tokens: tokens}
}

func sessionUser(s *melody.Session) string {
	id, _ := s.Get("user_id")
	userID, _ := id.(string)
	return userID
}

// HandleWS upgrades the request. Browsers cannot set headers on a
// WebSocket handshake, so the access token comes in ?token=.
func (h *WSHandler) HandleWS(c *gin.Context) {
	claims, err := h.tokens.ParseAccessToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	keys := map[string]interface{}{"user_id": claims.UserID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		utils.SafeWarn("websocket upgrade failed: %v", err)
	}
}

// Notify pushes n to every open connection of userID.
func (h *WSHandler) Notify(userID string, n models.Notification) {
	msg, err := json.Marshal(n)
	if err != nil {
		utils.SafeError("encoding %s notification: %v", n.Type, err)
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		return sessionUser(s) == userID
	})
	if err != nil {
		utils.SafeWarn("broadcast %s to %s failed: %v", n.Type, utils.MaskID(userID), err)
	}
}

func (h *WSHandler) Close() error {
	return h.M.Close()
}
