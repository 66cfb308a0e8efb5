// Package conversation covers the conversation list aggregation, group
// lifecycle and read tracking.
package conversation

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"unitcom_server/internal/dao/mysql/repository"
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/dto/respond"
	"unitcom_server/internal/model"
	"unitcom_server/internal/service/notify"
	"unitcom_server/pkg/errorx"
	"unitcom_server/pkg/util/random"

	"go.uber.org/zap"
)

type Service struct {
	repos  *repository.Repositories
	broker notify.Broker
	typing *notify.TypingRelay
}

func NewConversationService(repos *repository.Repositories, broker notify.Broker, typing *notify.TypingRelay) *Service {
	return &Service{repos: repos, broker: broker, typing: typing}
}

// List builds the conversation list: per conversation the resolved other
// member (direct chats), the unseen count relative to the caller's read
// pointer, and the newest-message preview. Ordered newest activity
// first; conversations without messages sort last, newest created first.
func (s *Service) List(externalId string) ([]respond.ConversationListItemRespond, error) {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return nil, err
	}
	memberships, err := s.repos.Member.FindByMember(caller.Uuid)
	if err != nil {
		return nil, err
	}

	type listEntry struct {
		item      respond.ConversationListItemRespond
		lastAt    int64
		createdAt int64
	}
	entries := make([]listEntry, 0, len(memberships))

	for i := range memberships {
		conv, err := s.repos.Conversation.FindByUuid(memberships[i].ConversationUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				// membership outlived its conversation; skip the orphan
				zap.L().Warn("membership without conversation",
					zap.String("conversation", memberships[i].ConversationUuid))
				continue
			}
			return nil, err
		}

		item := respond.ConversationListItemRespond{
			ConversationId: conv.Uuid,
			IsGroup:        conv.IsGroup,
			Name:           conv.Name,
		}

		if !conv.IsGroup {
			other, err := s.findOtherMember(conv.Uuid, caller.Uuid)
			if err != nil {
				return nil, err
			}
			if other != nil {
				resp := toUserRespond(other)
				item.OtherMember = &resp
			}
		}

		item.UnseenCount, err = s.repos.Message.CountUnseen(
			conv.Uuid, caller.Uuid, memberships[i].LastSeenMessageId)
		if err != nil {
			return nil, err
		}

		var lastAt int64
		if conv.LastMessageId != 0 {
			preview, at, err := s.buildPreview(conv, caller.Uuid)
			if err != nil {
				return nil, err
			}
			item.LastMessage = preview
			lastAt = at
		}

		entries = append(entries, listEntry{
			item:      item,
			lastAt:    lastAt,
			createdAt: conv.CreatedAt.UnixMilli(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if (entries[i].lastAt != 0) != (entries[j].lastAt != 0) {
			return entries[i].lastAt != 0
		}
		if entries[i].lastAt != entries[j].lastAt {
			return entries[i].lastAt > entries[j].lastAt
		}
		return entries[i].createdAt > entries[j].createdAt
	})

	result := make([]respond.ConversationListItemRespond, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.item)
	}
	return result, nil
}

// Get is the chat-view read path with resolved other member(s), each
// carrying their read pointer for seen markers.
func (s *Service) Get(externalId, conversationId string) (*respond.ConversationDetailRespond, error) {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return nil, err
	}
	conv, err := s.repos.Conversation.FindByUuid(conversationId)
	if err != nil {
		return nil, err
	}
	members, callerIsMember, err := s.loadMembers(conversationId, caller.Uuid)
	if err != nil {
		return nil, err
	}
	if !callerIsMember {
		return nil, errorx.New(errorx.CodeNotFound, "conversation not found")
	}

	otherUuids := make([]string, 0, len(members))
	memberByUuid := make(map[string]*model.ConversationMember, len(members))
	for i := range members {
		memberByUuid[members[i].MemberUuid] = &members[i]
		if members[i].MemberUuid != caller.Uuid {
			otherUuids = append(otherUuids, members[i].MemberUuid)
		}
	}

	detail := &respond.ConversationDetailRespond{
		ConversationId: conv.Uuid,
		IsGroup:        conv.IsGroup,
		Name:           conv.Name,
	}
	if len(otherUuids) == 0 {
		return detail, nil
	}

	users, err := s.repos.User.FindByUuids(otherUuids)
	if err != nil {
		return nil, err
	}
	others := make([]respond.ConversationMemberRespond, 0, len(users))
	for i := range users {
		membership := memberByUuid[users[i].Uuid]
		resp := respond.ConversationMemberRespond{
			UserId:   users[i].Uuid,
			Username: users[i].Username,
			Email:    users[i].Email,
			Avatar:   users[i].Avatar,
			Status:   users[i].Status,
		}
		if membership != nil && membership.LastSeenMessageId != 0 {
			resp.LastSeenMessageId = strconv.FormatInt(membership.LastSeenMessageId, 10)
		}
		others = append(others, resp)
	}

	if conv.IsGroup {
		detail.OtherMembers = others
	} else if len(others) > 0 {
		detail.OtherMember = &others[0]
	}
	return detail, nil
}

// CreateGroup creates a group conversation. The member list is
// de-duplicated and the caller is always added.
func (s *Service) CreateGroup(externalId string, req request.CreateGroupRequest) error {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return err
	}

	memberSet := map[string]struct{}{caller.Uuid: {}}
	memberUuids := []string{caller.Uuid}
	for _, uuid := range req.MemberIds {
		if _, seen := memberSet[uuid]; seen {
			continue
		}
		memberSet[uuid] = struct{}{}
		memberUuids = append(memberUuids, uuid)
	}

	users, err := s.repos.User.FindByUuids(memberUuids)
	if err != nil {
		return err
	}
	if len(users) != len(memberUuids) {
		return errorx.New(errorx.CodeUserNotFound, "group member not found")
	}

	conversationUuid := "C" + random.GetNowAndLenRandomString(13)
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Conversation.Create(&model.Conversation{
			Uuid:    conversationUuid,
			IsGroup: true,
			Name:    req.Name,
		}); err != nil {
			return err
		}
		for _, memberUuid := range memberUuids {
			if err := tx.Member.Create(&model.ConversationMember{
				ConversationUuid: conversationUuid,
				MemberUuid:       memberUuid,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(notify.NewEvent(notify.EventConversationUpdated, conversationUuid, memberUuids, nil))
	return nil
}

// LeaveGroup removes the caller's membership. When the last member
// leaves, the empty conversation and its messages are removed with it.
func (s *Service) LeaveGroup(externalId, conversationId string) error {
	caller, conv, err := s.requireGroupMember(externalId, conversationId)
	if err != nil {
		return err
	}

	var remaining []string
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Member.DeleteByConversationAndMember(conv.Uuid, caller.Uuid); err != nil {
			return err
		}
		members, err := tx.Member.FindByConversation(conv.Uuid)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			if err := tx.Message.DeleteByConversation(conv.Uuid); err != nil {
				return err
			}
			return tx.Conversation.Delete(conv.Uuid)
		}
		for _, m := range members {
			remaining = append(remaining, m.MemberUuid)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(remaining) > 0 {
		s.publish(notify.NewEvent(notify.EventConversationUpdated, conv.Uuid, remaining, nil))
	}
	return nil
}

// DeleteGroup cascades the conversation, its memberships and messages.
// Requires more than one membership; a single-member group must be left
// instead.
func (s *Service) DeleteGroup(externalId, conversationId string) error {
	_, conv, err := s.requireGroupMember(externalId, conversationId)
	if err != nil {
		return err
	}
	members, err := s.repos.Member.FindByConversation(conv.Uuid)
	if err != nil {
		return err
	}
	if len(members) <= 1 {
		return errorx.New(errorx.CodeConflict, "group has a single member, leave it instead")
	}
	memberUuids := make([]string, 0, len(members))
	for _, m := range members {
		memberUuids = append(memberUuids, m.MemberUuid)
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Message.DeleteByConversation(conv.Uuid); err != nil {
			return err
		}
		if err := tx.Member.DeleteByConversation(conv.Uuid); err != nil {
			return err
		}
		return tx.Conversation.Delete(conv.Uuid)
	})
	if err != nil {
		return err
	}

	s.publish(notify.NewEvent(notify.EventConversationUpdated, conv.Uuid, memberUuids, nil))
	return nil
}

// EditGroupName renames a group. Any member may rename.
func (s *Service) EditGroupName(externalId, conversationId, name string) error {
	_, conv, err := s.requireGroupMember(externalId, conversationId)
	if err != nil {
		return err
	}
	if err := s.repos.Conversation.UpdateName(conv.Uuid, name); err != nil {
		return err
	}
	members, err := s.repos.Member.FindByConversation(conv.Uuid)
	if err != nil {
		return err
	}
	memberUuids := make([]string, 0, len(members))
	for _, m := range members {
		memberUuids = append(memberUuids, m.MemberUuid)
	}
	s.publish(notify.NewEvent(notify.EventConversationUpdated, conv.Uuid, memberUuids, nil))
	return nil
}

// MarkAsRead advances the caller's read pointer to messageId. The target
// must belong to the conversation; a pointer never moves backwards, so a
// stale mark is a no-op rather than an error.
func (s *Service) MarkAsRead(externalId, conversationId string, messageId int64) error {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return err
	}
	membership, err := s.repos.Member.FindByConversationAndMember(conversationId, caller.Uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "conversation not found")
		}
		return err
	}
	message, err := s.repos.Message.FindByUuid(messageId)
	if err != nil {
		return err
	}
	if message.ConversationUuid != conversationId {
		return errorx.New(errorx.CodeInvalidParam, "message does not belong to conversation")
	}
	if messageId <= membership.LastSeenMessageId {
		return nil
	}
	if err := s.repos.Member.UpdateLastSeen(conversationId, caller.Uuid, messageId); err != nil {
		return err
	}

	// others re-render seen markers
	members, err := s.repos.Member.FindByConversation(conversationId)
	if err != nil {
		return err
	}
	recipients := make([]string, 0, len(members))
	for _, m := range members {
		if m.MemberUuid != caller.Uuid {
			recipients = append(recipients, m.MemberUuid)
		}
	}
	if len(recipients) > 0 {
		s.publish(notify.NewEvent(notify.EventConversationUpdated, conversationId, recipients, nil))
	}
	return nil
}

// Typing relays a typing indicator to the other members. Ephemeral: it
// rides the Redis relay, bypassing the mutation broker.
func (s *Service) Typing(externalId, conversationId string, isTyping bool) error {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return err
	}
	members, callerIsMember, err := s.loadMembers(conversationId, caller.Uuid)
	if err != nil {
		return err
	}
	if !callerIsMember {
		return errorx.New(errorx.CodeNotFound, "conversation not found")
	}
	recipients := make([]string, 0, len(members))
	for _, m := range members {
		if m.MemberUuid != caller.Uuid {
			recipients = append(recipients, m.MemberUuid)
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	payload := map[string]any{
		"user_id":   caller.Uuid,
		"username":  caller.Username,
		"is_typing": isTyping,
	}
	s.typing.Publish(context.Background(),
		notify.NewEvent(notify.EventTyping, conversationId, recipients, payload))
	return nil
}

// buildPreview formats the newest-message preview. Text keeps the raw
// content list; media types collapse to a sentinel.
func (s *Service) buildPreview(conv *model.Conversation, callerUuid string) (*respond.LastMessageRespond, int64, error) {
	message, err := s.repos.Message.FindByUuid(conv.LastMessageId)
	if err != nil {
		if errorx.IsNotFound(err) {
			// dangling pointer, treated as no preview
			zap.L().Warn("last message pointer dangling",
				zap.String("conversation", conv.Uuid), zap.Int64("message", conv.LastMessageId))
			return nil, 0, nil
		}
		return nil, 0, err
	}

	var content []string
	switch message.Type {
	case model.MessageTypeText:
		if err := json.Unmarshal([]byte(message.Content), &content); err != nil {
			content = []string{message.Content}
		}
	case model.MessageTypeImage:
		content = []string{"📷 image"}
	case model.MessageTypePdf:
		content = []string{"📎 Attached"}
	case model.MessageTypeAudio:
		content = []string{"🎵 audio"}
	default:
		content = []string{"[Non-text message]"}
	}

	senderName := "You"
	if message.SenderUuid != callerUuid {
		sender, err := s.repos.User.FindByUuid(message.SenderUuid)
		if err != nil {
			if !errorx.IsNotFound(err) {
				return nil, 0, err
			}
			senderName = "Unknown"
		} else {
			senderName = sender.Username
		}
	}

	at := message.SentAt.UnixMilli()
	return &respond.LastMessageRespond{
		Sender:    senderName,
		Content:   content,
		Timestamp: at,
	}, at, nil
}

// requireGroupMember resolves the caller and a group conversation they
// belong to. Membership failures surface as NotFound.
func (s *Service) requireGroupMember(externalId, conversationId string) (*model.User, *model.Conversation, error) {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return nil, nil, err
	}
	conv, err := s.repos.Conversation.FindByUuid(conversationId)
	if err != nil {
		return nil, nil, err
	}
	if !conv.IsGroup {
		return nil, nil, errorx.New(errorx.CodeInvalidParam, "not a group conversation")
	}
	if _, err := s.repos.Member.FindByConversationAndMember(conversationId, caller.Uuid); err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil, errorx.New(errorx.CodeNotFound, "conversation not found")
		}
		return nil, nil, err
	}
	return caller, conv, nil
}

// loadMembers lists a conversation's memberships and reports whether the
// caller is one of them.
func (s *Service) loadMembers(conversationId, callerUuid string) ([]model.ConversationMember, bool, error) {
	members, err := s.repos.Member.FindByConversation(conversationId)
	if err != nil {
		return nil, false, err
	}
	callerIsMember := false
	for i := range members {
		if members[i].MemberUuid == callerUuid {
			callerIsMember = true
			break
		}
	}
	return members, callerIsMember, nil
}

// findOtherMember resolves the other participant of a direct
// conversation, nil when the row is missing.
func (s *Service) findOtherMember(conversationId, callerUuid string) (*model.User, error) {
	members, err := s.repos.Member.FindByConversation(conversationId)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].MemberUuid == callerUuid {
			continue
		}
		other, err := s.repos.User.FindByUuid(members[i].MemberUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return other, nil
	}
	return nil, nil
}

func (s *Service) publish(event notify.Event) {
	if err := s.broker.Publish(context.Background(), event); err != nil {
		zap.L().Warn("conversation notify failed",
			zap.String("type", event.Type), zap.Error(err))
	}
}
