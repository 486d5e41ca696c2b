package models

import "gorm.io/gorm"

type ReadingLog struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null"`
	User       User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BookTitle  string `gorm:"not null"`
	Author     string
	Pages      int
	ReadDate   string // YYYY-MM-DD
	Summary    string `gorm:"type:text"`
	Approved   bool   `gorm:"default:false"` // set only by teacher/admin review
	ApprovedBy uint
}

type ReadingPlan struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null"`
	User       User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BookTitle  string `gorm:"not null"`
	Author     string
	TargetDate string // YYYY-MM-DD
	Completed  bool   `gorm:"default:false"`
}
