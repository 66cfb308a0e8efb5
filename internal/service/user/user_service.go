// Package user resolves external identities to local profiles and
// provisions users from provider webhooks.
package user

import (
	"strings"

	"unitcom_server/internal/dao/mysql/repository"
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/dto/respond"
	"unitcom_server/internal/model"
	"unitcom_server/pkg/errorx"
	"unitcom_server/pkg/util/random"

	"go.uber.org/zap"
)

// defaultStatus is the profile status assigned on provisioning.
const defaultStatus = "Just joined!👋"

type Service struct {
	repos *repository.Repositories
}

func NewUserService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// Resolve maps an external auth id to the local profile. Empty id means
// no credentials were presented; a valid id with no local row means the
// provisioning webhook has not arrived yet.
func (s *Service) Resolve(externalId string) (*respond.UserRespond, error) {
	if externalId == "" {
		return nil, errorx.ErrUnauthenticated
	}
	user, err := s.repos.User.FindByExternalId(externalId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUserNotFound
		}
		return nil, err
	}
	resp := ToUserRespond(user)
	return &resp, nil
}

// HandleAuthEvent upserts a user from a provider webhook event. Creation
// and update share one path so redelivered events stay idempotent.
func (s *Service) HandleAuthEvent(event request.AuthWebhookEvent) error {
	if event.Data.Id == "" {
		return errorx.New(errorx.CodeInvalidParam, "webhook event without user id")
	}
	email := ""
	if len(event.Data.EmailAddresses) > 0 {
		email = event.Data.EmailAddresses[0].EmailAddress
	}
	if email == "" {
		return errorx.New(errorx.CodeInvalidParam, "webhook event without email")
	}
	username := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)
	if username == "" {
		username = email
	}

	existing, err := s.repos.User.FindByExternalId(event.Data.Id)
	if err != nil && !errorx.IsNotFound(err) {
		return err
	}
	if existing != nil {
		existing.Username = username
		existing.Email = email
		existing.Avatar = event.Data.ImageUrl
		return s.repos.User.Update(existing)
	}

	newUser := &model.User{
		Uuid:       "U" + random.GetNowAndLenRandomString(13),
		ExternalId: event.Data.Id,
		Username:   username,
		Email:      email,
		Avatar:     event.Data.ImageUrl,
		Status:     defaultStatus,
	}
	if err := s.repos.User.Create(newUser); err != nil {
		// concurrent redelivery lost the insert race; the row exists now
		if errorx.IsDuplicateKey(err) {
			zap.L().Info("webhook user already provisioned",
				zap.String("external_id", event.Data.Id))
			return nil
		}
		return err
	}
	zap.L().Info("webhook user provisioned",
		zap.String("uuid", newUser.Uuid), zap.String("external_id", newUser.ExternalId))
	return nil
}

// ToUserRespond converts an identity record to its client shape.
func ToUserRespond(user *model.User) respond.UserRespond {
	return respond.UserRespond{
		UserId:   user.Uuid,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Status:   user.Status,
	}
}
