package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name             string `gorm:"not null"`
	Email            string `gorm:"uniqueIndex:idx_users_email,where:email <> ''"` // staff sign in with email
	StudentID        string `gorm:"uniqueIndex:idx_users_student_id,where:student_id <> ''"` // students sign in with student id
	PasswordHash     string `gorm:"not null"`
	Role             string `gorm:"default:student"` // student, teacher, admin, superadmin
	ClassName        string
	XP               int    `gorm:"default:0"`
	Level            string `gorm:"default:Yangi"` // derived from XP, recomputed on every XP change
	StreakCount      int    `gorm:"default:0"`
	LastActivityDate string // YYYY-MM-DD, server-local
	Theme            string `gorm:"default:light"`
	Avatar           string
}

type UserBadge struct {
	gorm.Model
	UserID   uint   `gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeKey string `gorm:"uniqueIndex:idx_user_badge;not null"`
}
