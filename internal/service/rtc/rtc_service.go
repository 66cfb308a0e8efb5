// Package rtc issues video-call access tokens. Tokens follow the
// LiveKit HS256 format: api key as issuer, participant identity as
// subject, room grants in the "video" claim.
package rtc

import (
	"time"

	"unitcom_server/internal/config"
	"unitcom_server/internal/dto/respond"
	"unitcom_server/pkg/errorx"

	"github.com/golang-jwt/jwt/v5"
)

// defaultTokenTTL applies when the config leaves the lifetime unset.
const defaultTokenTTL = 60 * time.Minute

type Service struct{}

func NewRtcService() *Service {
	return &Service{}
}

// IssueToken mints a room-scoped call token for username. The room id is
// the conversation uuid, so both parties of a call land in the same room.
func (s *Service) IssueToken(externalId, room, username string) (*respond.LivekitTokenRespond, error) {
	if externalId == "" {
		return nil, errorx.ErrUnauthenticated
	}
	conf := config.GetConfig()
	if conf.LivekitConfig.ApiKey == "" || conf.LivekitConfig.ApiSecret == "" {
		return nil, errorx.New(errorx.CodeServerBusy, "call service not configured")
	}

	ttl := defaultTokenTTL
	if conf.LivekitConfig.TokenTTL > 0 {
		ttl = time.Duration(conf.LivekitConfig.TokenTTL) * time.Minute
	}
	now := time.Now()

	claims := jwt.MapClaims{
		"iss": conf.LivekitConfig.ApiKey,
		"sub": username,
		"jti": username,
		"nbf": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"video": map[string]any{
			"room":         room,
			"roomJoin":     true,
			"canPublish":   true,
			"canSubscribe": true,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(conf.LivekitConfig.ApiSecret))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "sign call token")
	}
	return &respond.LivekitTokenRespond{Token: token}, nil
}
