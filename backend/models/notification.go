package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"index;not null"`
	User    User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message string `gorm:"not null"`
	Read    bool   `gorm:"default:false"`
}

type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null"`
	Value string
}
