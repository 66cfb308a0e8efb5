// Package message manages messages and their attachments.
package message

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"time"

	"unitcom_server/internal/dao/mysql/repository"
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/dto/respond"
	"unitcom_server/internal/infrastructure/storage"
	"unitcom_server/internal/model"
	"unitcom_server/internal/service/notify"
	"unitcom_server/pkg/constants"
	"unitcom_server/pkg/errorx"
	"unitcom_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

type Service struct {
	repos  *repository.Repositories
	broker notify.Broker
	store  storage.BlobStore
}

func NewMessageService(repos *repository.Repositories, broker notify.Broker, store storage.BlobStore) *Service {
	return &Service{repos: repos, broker: broker, store: store}
}

// Create appends a message. The insert and the conversation's
// newest-message pointer move in one transaction; the snowflake id is
// the chronological order key.
func (s *Service) Create(externalId string, req request.SendMessageRequest) (*respond.MessageRespond, error) {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Conversation.FindByUuid(req.ConversationId); err != nil {
		return nil, err
	}
	members, err := s.repos.Member.FindByConversation(req.ConversationId)
	if err != nil {
		return nil, err
	}
	recipients := make([]string, 0, len(members))
	isMember := false
	for _, m := range members {
		recipients = append(recipients, m.MemberUuid)
		if m.MemberUuid == caller.Uuid {
			isMember = true
		}
	}
	if !isMember {
		return nil, errorx.New(errorx.CodeNotFound, "conversation not found")
	}

	contentJson, err := json.Marshal(req.Content)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "encode message content")
	}

	message := &model.Message{
		Uuid:             snowflake.GenerateID(),
		ConversationUuid: req.ConversationId,
		SenderUuid:       caller.Uuid,
		Type:             req.Type,
		Content:          string(contentJson),
		SentAt:           time.Now(),
	}
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Message.Create(message); err != nil {
			return err
		}
		return tx.Conversation.SetLastMessage(req.ConversationId, message.Uuid, message.SentAt)
	})
	if err != nil {
		return nil, err
	}

	resp := toMessageRespond(message, caller)
	s.publish(notify.NewEvent(notify.EventMessageNew, req.ConversationId, recipients, resp))
	return &resp, nil
}

// List returns a conversation's messages in chronological order, sender
// profiles resolved in one batch.
func (s *Service) List(externalId, conversationId string) ([]respond.MessageRespond, error) {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Member.FindByConversationAndMember(conversationId, caller.Uuid); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "conversation not found")
		}
		return nil, err
	}
	messages, err := s.repos.Message.FindByConversation(conversationId)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return []respond.MessageRespond{}, nil
	}

	senderSet := make(map[string]struct{}, len(messages))
	senderUuids := make([]string, 0, len(messages))
	for i := range messages {
		if _, seen := senderSet[messages[i].SenderUuid]; seen {
			continue
		}
		senderSet[messages[i].SenderUuid] = struct{}{}
		senderUuids = append(senderUuids, messages[i].SenderUuid)
	}
	senders, err := s.repos.User.FindByUuids(senderUuids)
	if err != nil {
		return nil, err
	}
	senderByUuid := make(map[string]*model.User, len(senders))
	for i := range senders {
		senderByUuid[senders[i].Uuid] = &senders[i]
	}

	result := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		result = append(result, toMessageRespond(&messages[i], senderByUuid[messages[i].SenderUuid]))
	}
	return result, nil
}

// Edit replaces the content of a text message. Sender only; media
// messages are immutable.
func (s *Service) Edit(externalId string, messageId int64, content []string) error {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return err
	}
	message, err := s.repos.Message.FindByUuid(messageId)
	if err != nil {
		return err
	}
	if message.SenderUuid != caller.Uuid {
		return errorx.New(errorx.CodeInvalidParam, "only the sender can edit a message")
	}
	if message.Type != model.MessageTypeText {
		return errorx.New(errorx.CodeInvalidParam, "only text messages can be edited")
	}

	contentJson, err := json.Marshal(content)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidParam, "encode message content")
	}
	if err := s.repos.Message.UpdateContent(messageId, string(contentJson)); err != nil {
		return err
	}

	recipients, err := s.memberUuids(message.ConversationUuid)
	if err != nil {
		return err
	}
	s.publish(notify.NewEvent(notify.EventMessageEdited, message.ConversationUuid, recipients,
		map[string]any{"message_id": strconv.FormatInt(messageId, 10), "content": content}))
	return nil
}

// Delete removes a message. Sender only. When the deleted message was
// the conversation's newest, the pointer falls back to the next-newest
// row in the same transaction. Attachment blobs are removed best-effort
// afterwards.
func (s *Service) Delete(externalId string, messageId int64) error {
	caller, err := resolveCaller(s.repos, externalId)
	if err != nil {
		return err
	}
	message, err := s.repos.Message.FindByUuid(messageId)
	if err != nil {
		return err
	}
	if message.SenderUuid != caller.Uuid {
		return errorx.New(errorx.CodeInvalidParam, "only the sender can delete a message")
	}
	conversation, err := s.repos.Conversation.FindByUuid(message.ConversationUuid)
	if err != nil {
		return err
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Message.DeleteByUuid(messageId); err != nil {
			return err
		}
		if conversation.LastMessageId != messageId {
			return nil
		}
		last, err := tx.Message.FindLastByConversation(message.ConversationUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				return tx.Conversation.SetLastMessage(message.ConversationUuid, 0, time.Time{})
			}
			return err
		}
		return tx.Conversation.SetLastMessage(message.ConversationUuid, last.Uuid, last.SentAt)
	})
	if err != nil {
		return err
	}

	if message.Type != model.MessageTypeText {
		s.removeBlobs(message)
	}

	recipients, err := s.memberUuids(message.ConversationUuid)
	if err != nil {
		return err
	}
	s.publish(notify.NewEvent(notify.EventMessageDeleted, message.ConversationUuid, recipients,
		map[string]any{"message_id": strconv.FormatInt(messageId, 10)}))
	return nil
}

// Upload stores an attachment blob and returns its public URL. The
// client sends the URL back as the content of a media message.
func (s *Service) Upload(kind string, fileHeader *multipart.FileHeader) (*respond.UploadRespond, error) {
	switch kind {
	case model.MessageTypeImage, model.MessageTypePdf, model.MessageTypeAudio:
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "unsupported attachment kind %s", kind)
	}
	if fileHeader.Size > constants.FILE_MAX_SIZE {
		return nil, errorx.New(errorx.CodeInvalidParam, "file too large")
	}
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "file without extension")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "open uploaded file")
	}
	defer src.Close()

	url, _, err := s.store.Upload(kind, ext, src)
	if err != nil {
		return nil, err
	}
	return &respond.UploadRespond{Url: url}, nil
}

// removeBlobs deletes the storage blobs referenced by a media message.
// Failures leave garbage blobs, never a failed delete.
func (s *Service) removeBlobs(message *model.Message) {
	var urls []string
	if err := json.Unmarshal([]byte(message.Content), &urls); err != nil {
		zap.L().Warn("media message content decode failed",
			zap.Int64("message", message.Uuid), zap.Error(err))
		return
	}
	for _, url := range urls {
		path := s.store.PathFromUrl(url)
		if path == "" {
			continue
		}
		if err := s.store.Remove(path); err != nil {
			zap.L().Warn("attachment blob removal failed",
				zap.String("path", path), zap.Error(err))
		}
	}
}

func (s *Service) memberUuids(conversationId string) ([]string, error) {
	members, err := s.repos.Member.FindByConversation(conversationId)
	if err != nil {
		return nil, err
	}
	uuids := make([]string, 0, len(members))
	for _, m := range members {
		uuids = append(uuids, m.MemberUuid)
	}
	return uuids, nil
}

func (s *Service) publish(event notify.Event) {
	if err := s.broker.Publish(context.Background(), event); err != nil {
		zap.L().Warn("message notify failed",
			zap.String("type", event.Type), zap.Error(err))
	}
}

func toMessageRespond(message *model.Message, sender *model.User) respond.MessageRespond {
	var content []string
	if err := json.Unmarshal([]byte(message.Content), &content); err != nil {
		content = []string{message.Content}
	}
	resp := respond.MessageRespond{
		MessageId: strconv.FormatInt(message.Uuid, 10),
		SenderId:  message.SenderUuid,
		Type:      message.Type,
		Content:   content,
		SentAt:    message.SentAt.UnixMilli(),
	}
	if sender != nil {
		resp.SenderName = sender.Username
		resp.SenderAvatar = sender.Avatar
	}
	return resp
}
