package message

import (
	"unitcom_server/internal/dao/mysql/repository"
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
