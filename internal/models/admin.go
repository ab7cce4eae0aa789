package models

import "time"

// Admin is a user allowed to review appeals. The bot owner is authorized
// implicitly through configuration and is not stored here.
type Admin struct {
	UserID    int64 `gorm:"primaryKey"`
	AddedBy   int64 `gorm:"default:0"`
	CreatedAt time.Time
}
