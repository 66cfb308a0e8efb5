package repository

import (
	"unitcom_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates the message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) FindByUuid(uuid int64) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("uuid = ?", uuid).First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "find message uuid=%d", uuid)
	}
	return &message, nil
}

func (r *messageRepository) FindByConversation(conversationUuid string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("conversation_uuid = ?", conversationUuid).
		Order("uuid ASC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "find messages conversation=%s", conversationUuid)
	}
	return messages, nil
}

func (r *messageRepository) FindLastByConversation(conversationUuid string) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("conversation_uuid = ?", conversationUuid).
		Order("uuid DESC").First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "find last message conversation=%s", conversationUuid)
	}
	return &message, nil
}

// CountUnseen relies on snowflake ids being assigned in insertion order:
// "sent after the last-seen message" is exactly "uuid greater than the
// last-seen id", ties included.
func (r *messageRepository) CountUnseen(conversationUuid string, excludeSender string, afterId int64) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).
		Where("conversation_uuid = ? AND uuid > ? AND sender_uuid <> ?",
			conversationUuid, afterId, excludeSender).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count unseen conversation=%s", conversationUuid)
	}
	return count, nil
}

func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "create message")
	}
	return nil
}

func (r *messageRepository) UpdateContent(uuid int64, content string) error {
	if err := r.db.Model(&model.Message{}).Where("uuid = ?", uuid).
		Update("content", content).Error; err != nil {
		return wrapDBErrorf(err, "update message uuid=%d", uuid)
	}
	return nil
}

func (r *messageRepository) DeleteByUuid(uuid int64) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).
		Delete(&model.Message{}).Error; err != nil {
		return wrapDBErrorf(err, "delete message uuid=%d", uuid)
	}
	return nil
}

func (r *messageRepository) DeleteByConversation(conversationUuid string) error {
	if err := r.db.Unscoped().Where("conversation_uuid = ?", conversationUuid).
		Delete(&model.Message{}).Error; err != nil {
		return wrapDBErrorf(err, "delete messages conversation=%s", conversationUuid)
	}
	return nil
}
