package repository

import (
	"unitcom_server/internal/model"

	"gorm.io/gorm"
)

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates the membership repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) FindByMember(memberUuid string) ([]model.ConversationMember, error) {
	var members []model.ConversationMember
	if err := r.db.Where("member_uuid = ?", memberUuid).Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "find memberships member=%s", memberUuid)
	}
	return members, nil
}

func (r *memberRepository) FindByConversation(conversationUuid string) ([]model.ConversationMember, error) {
	var members []model.ConversationMember
	if err := r.db.Where("conversation_uuid = ?", conversationUuid).Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "find memberships conversation=%s", conversationUuid)
	}
	return members, nil
}

func (r *memberRepository) FindByConversationAndMember(conversationUuid, memberUuid string) (*model.ConversationMember, error) {
	var member model.ConversationMember
	if err := r.db.Where("conversation_uuid = ? AND member_uuid = ?", conversationUuid, memberUuid).
		First(&member).Error; err != nil {
		return nil, wrapDBErrorf(err, "find membership conversation=%s member=%s", conversationUuid, memberUuid)
	}
	return &member, nil
}

func (r *memberRepository) CountByConversation(conversationUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ConversationMember{}).
		Where("conversation_uuid = ?", conversationUuid).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count memberships conversation=%s", conversationUuid)
	}
	return count, nil
}

func (r *memberRepository) Create(member *model.ConversationMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBError(err, "create membership")
	}
	return nil
}

// UpdateLastSeen only moves the pointer forward; a stale id matches no
// row, so concurrent marks cannot rewind each other.
func (r *memberRepository) UpdateLastSeen(conversationUuid, memberUuid string, messageId int64) error {
	if err := r.db.Model(&model.ConversationMember{}).
		Where("conversation_uuid = ? AND member_uuid = ? AND last_seen_message_id < ?",
			conversationUuid, memberUuid, messageId).
		Update("last_seen_message_id", messageId).Error; err != nil {
		return wrapDBErrorf(err, "update read pointer conversation=%s member=%s", conversationUuid, memberUuid)
	}
	return nil
}

func (r *memberRepository) DeleteByConversationAndMember(conversationUuid, memberUuid string) error {
	if err := r.db.Unscoped().
		Where("conversation_uuid = ? AND member_uuid = ?", conversationUuid, memberUuid).
		Delete(&model.ConversationMember{}).Error; err != nil {
		return wrapDBErrorf(err, "delete membership conversation=%s member=%s", conversationUuid, memberUuid)
	}
	return nil
}

func (r *memberRepository) DeleteByConversation(conversationUuid string) error {
	if err := r.db.Unscoped().Where("conversation_uuid = ?", conversationUuid).
		Delete(&model.ConversationMember{}).Error; err != nil {
		return wrapDBErrorf(err, "delete memberships conversation=%s", conversationUuid)
	}
	return nil
}
