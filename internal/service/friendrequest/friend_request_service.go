// Package friendrequest runs the friend-request state machine: create,
// accept (converting to a contact plus a direct conversation), decline.
package friendrequest

import (
	"context"

	"unitcom_server/internal/dao/mysql/repository"
	"unitcom_server/internal/dto/respond"
	"unitcom_server/internal/model"
	"unitcom_server/internal/service/contact"
	"unitcom_server/internal/service/notify"
	"unitcom_server/pkg/errorx"
	"unitcom_server/pkg/util/random"

	"go.uber.org/zap"
)

type Service struct {
	repos  *repository.Repositories
	broker notify.Broker
}

func NewFriendRequestService(repos *repository.Repositories, broker notify.Broker) *Service {
	return &Service{repos: repos, broker: broker}
}

// Create sends a request to the user owning email. Rejected when the
// target is the caller, already a contact, or a pending request exists
// in either direction.
func (s *Service) Create(externalId, email string) (string, error) {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return "", err
	}
	receiver, err := s.repos.User.FindByEmail(email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return "", errorx.ErrUserNotFound
		}
		return "", err
	}
	if receiver.Uuid == caller.Uuid {
		return "", errorx.New(errorx.CodeInvalidParam, "cannot send a request to yourself")
	}

	if _, err := s.repos.Contact.FindByUsers(caller.Uuid, receiver.Uuid); err == nil {
		return "", errorx.New(errorx.CodeConflict, "already contacts")
	} else if !errorx.IsNotFound(err) {
		return "", err
	}
	if _, err := s.repos.FriendRequest.FindBySenderAndReceiver(caller.Uuid, receiver.Uuid); err == nil {
		return "", errorx.New(errorx.CodeConflict, "request already sent")
	} else if !errorx.IsNotFound(err) {
		return "", err
	}
	if _, err := s.repos.FriendRequest.FindBySenderAndReceiver(receiver.Uuid, caller.Uuid); err == nil {
		return "", errorx.New(errorx.CodeConflict, "this user already sent you a request")
	} else if !errorx.IsNotFound(err) {
		return "", err
	}

	req := &model.FriendRequest{
		Uuid:         "F" + random.GetNowAndLenRandomString(13),
		SenderUuid:   caller.Uuid,
		ReceiverUuid: receiver.Uuid,
	}
	if err := s.repos.FriendRequest.Create(req); err != nil {
		// a concurrent duplicate lost the insert race on (receiver, sender)
		if errorx.IsDuplicateKey(err) {
			return "", errorx.New(errorx.CodeConflict, "request already sent")
		}
		return "", err
	}

	s.publish(notify.NewEvent(notify.EventFriendRequestNew, "", []string{receiver.Uuid},
		toFriendRequestRespond(req, caller)))
	return req.Uuid, nil
}

// Accept converts a pending request into a contact edge plus a direct
// conversation with two memberships, then deletes the request row. All
// five writes share one transaction. Caller must be the receiver.
func (s *Service) Accept(externalId, requestId string) error {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return err
	}
	req, err := s.repos.FriendRequest.FindByUuid(requestId)
	if err != nil {
		return err
	}
	if req.ReceiverUuid != caller.Uuid {
		return errorx.New(errorx.CodeInvalidParam, "only the receiver can accept a request")
	}

	conversationUuid := "C" + random.GetNowAndLenRandomString(13)
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Conversation.Create(&model.Conversation{
			Uuid:    conversationUuid,
			IsGroup: false,
		}); err != nil {
			return err
		}
		for _, memberUuid := range []string{req.SenderUuid, req.ReceiverUuid} {
			if err := tx.Member.Create(&model.ConversationMember{
				ConversationUuid: conversationUuid,
				MemberUuid:       memberUuid,
			}); err != nil {
				return err
			}
		}
		if err := tx.Contact.Create(&model.Contact{
			User1:            req.SenderUuid,
			User2:            req.ReceiverUuid,
			ConversationUuid: conversationUuid,
		}); err != nil {
			return err
		}
		return tx.FriendRequest.DeleteByUuid(req.Uuid)
	})
	if err != nil {
		// the pair already has a contact edge; a concurrent accept won
		if errorx.IsDuplicateKey(err) {
			return errorx.New(errorx.CodeConflict, "already contacts")
		}
		return err
	}

	contact.InvalidateContactCache(req.SenderUuid)
	contact.InvalidateContactCache(req.ReceiverUuid)
	s.publish(notify.NewEvent(notify.EventFriendRequestAccepted, conversationUuid,
		[]string{req.SenderUuid, req.ReceiverUuid}, nil))
	return nil
}

// Decline deletes a pending request. Caller must be the receiver.
func (s *Service) Decline(externalId, requestId string) error {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return err
	}
	req, err := s.repos.FriendRequest.FindByUuid(requestId)
	if err != nil {
		return err
	}
	if req.ReceiverUuid != caller.Uuid {
		return errorx.New(errorx.CodeInvalidParam, "only the receiver can decline a request")
	}
	if err := s.repos.FriendRequest.DeleteByUuid(req.Uuid); err != nil {
		return err
	}
	s.publish(notify.NewEvent(notify.EventFriendRequestDeclined, "",
		[]string{req.SenderUuid}, nil))
	return nil
}

// List returns pending requests addressed to the caller, senders
// resolved.
func (s *Service) List(externalId string) ([]respond.FriendRequestRespond, error) {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return nil, err
	}
	requests, err := s.repos.FriendRequest.FindByReceiver(caller.Uuid)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return []respond.FriendRequestRespond{}, nil
	}

	senderUuids := make([]string, 0, len(requests))
	for _, req := range requests {
		senderUuids = append(senderUuids, req.SenderUuid)
	}
	senders, err := s.repos.User.FindByUuids(senderUuids)
	if err != nil {
		return nil, err
	}
	senderByUuid := make(map[string]*model.User, len(senders))
	for i := range senders {
		senderByUuid[senders[i].Uuid] = &senders[i]
	}

	result := make([]respond.FriendRequestRespond, 0, len(requests))
	for i := range requests {
		sender, ok := senderByUuid[requests[i].SenderUuid]
		if !ok {
			// sender row vanished between queries; skip the orphan
			zap.L().Warn("friend request with missing sender",
				zap.String("request", requests[i].Uuid))
			continue
		}
		result = append(result, toFriendRequestRespond(&requests[i], sender))
	}
	return result, nil
}

func (s *Service) publish(event notify.Event) {
	if err := s.broker.Publish(context.Background(), event); err != nil {
		zap.L().Warn("friend request notify failed",
			zap.String("type", event.Type), zap.Error(err))
	}
}

func toFriendRequestRespond(req *model.FriendRequest, sender *model.User) respond.FriendRequestRespond {
	return respond.FriendRequestRespond{
		RequestId: req.Uuid,
		Sender: respond.UserRespond{
			UserId:   sender.Uuid,
			Username: sender.Username,
			Email:    sender.Email,
			Avatar:   sender.Avatar,
			Status:   sender.Status,
		},
		CreatedAt: req.CreatedAt.UnixMilli(),
	}
}
