package contact

import (
	"unitcom_server/internal/dao/mysql/repository"
	"unitcom_server/internal/dto/respond"
	"unitcom_server/internal/model"
	"unitcom_server/pkg/errorx"
)

// resolveCaller maps the caller's external auth id to the local user row.
func resolveCaller(repos *repository.Repositories, externalId string) (*model.User, error) {
	if externalId == "" {
		return nil, errorx.ErrUnauthenticated
	}
	caller, err := repos.User.FindByExternalId(externalId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUserNotFound
		}
		return nil, err
	}
	return caller, nil
}

func toUserRespond(user *model.User) respond.UserRespond {
	return respond.UserRespond{
		UserId:   user.Uuid,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Status:   user.Status,
	}
}
