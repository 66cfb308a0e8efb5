// This file handles the identity-provider webhook that provisions users.
package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// webhookTolerance bounds the timestamp skew accepted on deliveries,
// limiting replay of captured payloads.
const webhookTolerance = 5 * time.Minute

// WebhookHandler verifies and applies auth-provider webhook deliveries.
// Deliveries are signed with the svix v1 scheme: HMAC-SHA256 over
// "{id}.{timestamp}.{body}" keyed by the base64 secret after the
// "whsec_" prefix.
type WebhookHandler struct {
	userSvc service.UserService
	secret  []byte
}

func NewWebhookHandler(userSvc service.UserService, webhookSecret string) *WebhookHandler {
	secret, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(webhookSecret, "whsec_"))
	if err != nil {
		zap.L().Error("webhook secret is not valid base64, verification will fail", zap.Error(err))
	}
	return &WebhookHandler{userSvc: userSvc, secret: secret}
}

// AuthEvents receives user.created / user.updated deliveries.
// POST /webhook/auth
// Unknown event types acknowledge with 200 so the provider stops
// retrying them.
func (h *WebhookHandler) AuthEvents(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "unreadable body")
		return
	}
	if !h.verify(c, body) {
		c.String(http.StatusUnauthorized, "invalid signature")
		return
	}

	var event request.AuthWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.String(http.StatusBadRequest, "malformed event")
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		if err := h.userSvc.HandleAuthEvent(event); err != nil {
			zap.L().Error("webhook event apply failed",
				zap.String("type", event.Type), zap.Error(err))
			c.String(http.StatusInternalServerError, "event apply failed")
			return
		}
	default:
		zap.L().Debug("webhook event ignored", zap.String("type", event.Type))
	}
	c.String(http.StatusOK, "ok")
}

// verify checks the svix v1 signature headers against the shared secret.
func (h *WebhookHandler) verify(c *gin.Context, body []byte) bool {
	if len(h.secret) == 0 {
		return false
	}
	msgId := c.GetHeader("svix-id")
	timestamp := c.GetHeader("svix-timestamp")
	signatures := c.GetHeader("svix-signature")
	if msgId == "" || timestamp == "" || signatures == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	skew := time.Since(time.Unix(ts, 0))
	if skew > webhookTolerance || skew < -webhookTolerance {
		return false
	}

	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(msgId + "." + timestamp + "."))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// the header may carry several space-separated "v1,<sig>" entries
	for _, entry := range strings.Fields(signatures) {
		parts := strings.SplitN(entry, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		if hmac.Equal([]byte(parts[1]), []byte(expected)) {
			return true
		}
	}
	return false
}
