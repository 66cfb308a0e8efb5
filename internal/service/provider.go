package service

import (
	"unitcom_server/internal/dao/mysql/repository"
	"unitcom_server/internal/infrastructure/storage"
	"unitcom_server/internal/service/contact"
	"unitcom_server/internal/service/conversation"
	"unitcom_server/internal/service/friendrequest"
	"unitcom_server/internal/service/message"
	"unitcom_server/internal/service/notify"
	"unitcom_server/internal/service/rtc"
	"unitcom_server/internal/service/user"
)

// Services aggregates every business service for handler injection.
type Services struct {
	UserService          UserService
	ContactService       ContactService
	FriendRequestService FriendRequestService
	ConversationService  ConversationService
	MessageService       MessageService
	RtcService           RtcService
}

// NewServices wires the service layer on top of the repositories,
// the notification broker, the typing relay and the blob store.
func NewServices(repos *repository.Repositories, broker notify.Broker, typing *notify.TypingRelay, store storage.BlobStore) *Services {
	return &Services{
		UserService:          user.NewUserService(repos),
		ContactService:       contact.NewContactService(repos, broker),
		FriendRequestService: friendrequest.NewFriendRequestService(repos, broker),
		ConversationService:  conversation.NewConversationService(repos, broker, typing),
		MessageService:       message.NewMessageService(repos, broker, store),
		RtcService:           rtc.NewRtcService(),
	}
}
