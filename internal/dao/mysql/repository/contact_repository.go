package repository

import (
	"unitcom_server/internal/model"

	"gorm.io/gorm"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates the contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) FindByUsers(userA, userB string) (*model.Contact, error) {
	low, high := model.CanonicalPair(userA, userB)
	var contact model.Contact
	if err := r.db.Where("user1 = ? AND user2 = ?", low, high).First(&contact).Error; err != nil {
		return nil, wrapDBErrorf(err, "find contact pair=%s/%s", low, high)
	}
	return &contact, nil
}

func (r *contactRepository) FindByUser(userUuid string) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := r.db.Where("user1 = ? OR user2 = ?", userUuid, userUuid).
		Find(&contacts).Error; err != nil {
		return nil, wrapDBErrorf(err, "find contacts user=%s", userUuid)
	}
	return contacts, nil
}

func (r *contactRepository) FindByConversation(conversationUuid string) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.Where("conversation_uuid = ?", conversationUuid).
		First(&contact).Error; err != nil {
		return nil, wrapDBErrorf(err, "find contact conversation=%s", conversationUuid)
	}
	return &contact, nil
}

// Create canonicalizes the pair before insert so the unique index catches
// a concurrent duplicate regardless of slot order.
func (r *contactRepository) Create(contact *model.Contact) error {
	contact.User1, contact.User2 = model.CanonicalPair(contact.User1, contact.User2)
	if err := r.db.Create(contact).Error; err != nil {
		return wrapDBError(err, "create contact")
	}
	return nil
}

func (r *contactRepository) DeleteByConversation(conversationUuid string) error {
	if err := r.db.Unscoped().Where("conversation_uuid = ?", conversationUuid).
		Delete(&model.Contact{}).Error; err != nil {
		return wrapDBErrorf(err, "delete contact conversation=%s", conversationUuid)
	}
	return nil
}
