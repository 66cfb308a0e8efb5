package repository

import (
	"time"

	"unitcom_server/internal/model"

	"gorm.io/gorm"
)

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates the conversation repository.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindByUuid(uuid string) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.Where("uuid = ?", uuid).First(&conversation).Error; err != nil {
		return nil, wrapDBErrorf(err, "find conversation uuid=%s", uuid)
	}
	return &conversation, nil
}

func (r *conversationRepository) Create(conversation *model.Conversation) error {
	if err := r.db.Create(conversation).Error; err != nil {
		return wrapDBError(err, "create conversation")
	}
	return nil
}

func (r *conversationRepository) UpdateName(uuid string, name string) error {
	if err := r.db.Model(&model.Conversation{}).Where("uuid = ?", uuid).
		Update("name", name).Error; err != nil {
		return wrapDBErrorf(err, "rename conversation uuid=%s", uuid)
	}
	return nil
}

func (r *conversationRepository) SetLastMessage(uuid string, messageId int64, at time.Time) error {
	updates := map[string]interface{}{
		"last_message_id": messageId,
		"last_message_at": at,
	}
	if messageId == 0 {
		updates["last_message_at"] = nil
	}
	if err := r.db.Model(&model.Conversation{}).Where("uuid = ?", uuid).
		Updates(updates).Error; err != nil {
		return wrapDBErrorf(err, "set last message conversation=%s", uuid)
	}
	return nil
}

// Delete is a hard delete; conversation removal is irreversible.
func (r *conversationRepository) Delete(uuid string) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).
		Delete(&model.Conversation{}).Error; err != nil {
		return wrapDBErrorf(err, "delete conversation uuid=%s", uuid)
	}
	return nil
}
