// This file handles the current-user API.
package handler

import (
	"unitcom_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles identity requests.
type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me returns the caller's own profile.
// GET /user/me
// Response: respond.UserRespond
func (h *UserHandler) Me(c *gin.Context) {
	data, err := h.userSvc.Resolve(callerExternalId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
