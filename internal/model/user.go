// Package model defines the database entities.
// This file defines the user identity record.
package model

import (
	"gorm.io/gorm"
)

// User is a local identity record provisioned by the auth-provider
// webhook. ExternalId is the stable join key to the provider; everything
// else is mutable profile data.
type User struct {
	gorm.Model

	// Uuid is the user's unique id.
	// Format: U + date-prefixed random string, e.g. "U260831aB3dE9xY2kQw".
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:user uuid"`

	// ExternalId is the auth provider's subject id.
	ExternalId string `gorm:"column:external_id;uniqueIndex;type:varchar(64);not null;comment:auth provider subject"`

	// Username is the display name, taken from the provider profile.
	Username string `gorm:"column:username;type:varchar(50);not null;comment:display name"`

	// Email is the login email; friend requests address users by it.
	Email string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:email"`

	// Avatar is the profile image URL.
	Avatar string `gorm:"column:avatar;type:varchar(255);comment:avatar url"`

	// Status is a free-form profile status line, e.g. "Just joined!👋".
	Status string `gorm:"column:status;type:varchar(100);comment:profile status"`
}

func (User) TableName() string {
	return "user"
}
