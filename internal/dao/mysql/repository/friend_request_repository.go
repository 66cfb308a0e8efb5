package repository

import (
	"unitcom_server/internal/model"

	"gorm.io/gorm"
)

type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository creates the friend-request repository.
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) FindByUuid(uuid string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := r.db.Where("uuid = ?", uuid).First(&request).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friend request uuid=%s", uuid)
	}
	return &request, nil
}

func (r *friendRequestRepository) FindBySenderAndReceiver(senderUuid, receiverUuid string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := r.db.Where("sender_uuid = ? AND receiver_uuid = ?", senderUuid, receiverUuid).
		First(&request).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friend request sender=%s receiver=%s", senderUuid, receiverUuid)
	}
	return &request, nil
}

func (r *friendRequestRepository) FindByReceiver(receiverUuid string) ([]model.FriendRequest, error) {
	var requests []model.FriendRequest
	if err := r.db.Where("receiver_uuid = ?", receiverUuid).
		Order("created_at ASC").Find(&requests).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friend requests receiver=%s", receiverUuid)
	}
	return requests, nil
}

func (r *friendRequestRepository) Create(request *model.FriendRequest) error {
	if err := r.db.Create(request).Error; err != nil {
		return wrapDBError(err, "create friend request")
	}
	return nil
}

// DeleteByUuid is a hard delete; both terminal states remove the row.
func (r *friendRequestRepository) DeleteByUuid(uuid string) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).
		Delete(&model.FriendRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "delete friend request uuid=%s", uuid)
	}
	return nil
}
