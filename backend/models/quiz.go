package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	ReadingLogID uint       `gorm:"index;not null"`
	ReadingLog   ReadingLog `gorm:"foreignKey:ReadingLogID;constraint:OnDelete:CASCADE"`
	Savollar     string     `gorm:"type:text"` // serialized question array, see services.Question
}

type Result struct {
	gorm.Model
	QuizID  uint   `gorm:"index;not null"`
	Quiz    Quiz   `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	UserID  uint   `gorm:"index;not null"`
	Answers string `gorm:"type:text"` // serialized submitted answer array
	Score   int    // percentage 0-100
}
