// Package contact manages the accepted contact graph.
package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	myredis "unitcom_server/internal/dao/redis"

	"unitcom_server/internal/dao/mysql/repository"
	"unitcom_server/internal/dto/respond"
	"unitcom_server/internal/service/notify"
	"unitcom_server/pkg/constants"
	"unitcom_server/pkg/errorx"

	"go.uber.org/zap"
)

type Service struct {
	repos  *repository.Repositories
	broker notify.Broker
}

func NewContactService(repos *repository.Repositories, broker notify.Broker) *Service {
	return &Service{repos: repos, broker: broker}
}

func contactListKey(userUuid string) string {
	return fmt.Sprintf("unitcom:contact_list:%s", userUuid)
}

// ListContacts resolves the caller's contacts to profiles, cache-aside
// over Redis. A cache failure degrades to the database, never to an
// error.
func (s *Service) ListContacts(externalId string) ([]respond.UserRespond, error) {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return nil, err
	}

	key := contactListKey(caller.Uuid)
	if cached, err := myredis.GetKey(context.Background(), key); err != nil {
		zap.L().Warn("contact list cache read failed", zap.Error(err))
	} else if cached != "" {
		var contacts []respond.UserRespond
		if err := json.Unmarshal([]byte(cached), &contacts); err == nil {
			return contacts, nil
		}
		zap.L().Warn("contact list cache corrupt, rebuilding", zap.String("key", key))
	}

	edges, err := s.repos.Contact.FindByUser(caller.Uuid)
	if err != nil {
		return nil, err
	}
	otherUuids := make([]string, 0, len(edges))
	for _, edge := range edges {
		if edge.User1 == caller.Uuid {
			otherUuids = append(otherUuids, edge.User2)
		} else {
			otherUuids = append(otherUuids, edge.User1)
		}
	}
	contacts := make([]respond.UserRespond, 0, len(otherUuids))
	if len(otherUuids) > 0 {
		users, err := s.repos.User.FindByUuids(otherUuids)
		if err != nil {
			return nil, err
		}
		for i := range users {
			contacts = append(contacts, toUserRespond(&users[i]))
		}
	}

	myredis.SubmitCacheTask(func() {
		data, err := json.Marshal(contacts)
		if err != nil {
			return
		}
		if err := myredis.SetKeyEx(context.Background(), key, string(data),
			time.Minute*constants.REDIS_TIMEOUT); err != nil {
			zap.L().Warn("contact list cache write failed", zap.Error(err))
		}
	})

	return contacts, nil
}

// RemoveContact unfriends via the direct conversation id. The edge, both
// memberships, the message history and the conversation itself go in one
// transaction.
func (s *Service) RemoveContact(externalId, conversationId string) error {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return err
	}
	conversation, err := s.repos.Conversation.FindByUuid(conversationId)
	if err != nil {
		return err
	}
	if conversation.IsGroup {
		return errorx.New(errorx.CodeInvalidParam, "not a direct conversation")
	}
	members, err := s.repos.Member.FindByConversation(conversationId)
	if err != nil {
		return err
	}
	memberUuids := make([]string, 0, len(members))
	isMember := false
	for _, m := range members {
		memberUuids = append(memberUuids, m.MemberUuid)
		if m.MemberUuid == caller.Uuid {
			isMember = true
		}
	}
	if !isMember {
		return errorx.New(errorx.CodeNotFound, "conversation not found")
	}
	// a direct conversation carries exactly two memberships; anything
	// else is a corrupt row the cascade must not touch
	if len(members) != 2 {
		return errorx.New(errorx.CodeConflict, "direct conversation does not have exactly two members")
	}
	edge, err := s.repos.Contact.FindByConversation(conversationId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "contact not found")
		}
		return err
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Message.DeleteByConversation(conversationId); err != nil {
			return err
		}
		if err := tx.Member.DeleteByConversation(conversationId); err != nil {
			return err
		}
		if err := tx.Contact.DeleteByConversation(conversationId); err != nil {
			return err
		}
		return tx.Conversation.Delete(conversationId)
	})
	if err != nil {
		return err
	}

	InvalidateContactCache(edge.User1)
	InvalidateContactCache(edge.User2)
	event := notify.NewEvent(notify.EventConversationUpdated, conversationId, memberUuids, nil)
	if err := s.broker.Publish(context.Background(), event); err != nil {
		zap.L().Warn("contact removal notify failed", zap.Error(err))
	}
	return nil
}

// InvalidateContactCache drops a user's cached contact list. Runs on the
// async cache worker so the mutation path never blocks on Redis.
func InvalidateContactCache(userUuid string) {
	key := contactListKey(userUuid)
	myredis.SubmitCacheTask(func() {
		if err := myredis.DelKey(context.Background(), key); err != nil {
			zap.L().Warn("contact list cache invalidation failed",
				zap.String("key", key), zap.Error(err))
		}
	})
}
