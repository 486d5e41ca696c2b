package services

import (
	"fmt"
	"time"

	"kitobxon/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

// Gamification maintains the derived reputation state (xp, level, streak,
// badges) as a function of a user's accumulated activity. Every public
// operation runs in a single transaction so a failure cannot leave xp and
// level disagreeing, and concurrent callers cannot lose an increment.
type Gamification struct {
	DB       *gorm.DB
	Settings SettingsProvider
	now      func() time.Time
}

func NewGamification(db *gorm.DB) *Gamification {
	return &Gamification{
		DB:       db,
		Settings: &DBSettings{DB: db},
		now:      time.Now,
	}
}

// Amounts resolves the current XP amounts, honoring admin overrides.
func (g *Gamification) Amounts() XPAmounts {
	return ResolveXPAmounts(g.Settings)
}

// AddXP increments the user's xp and recomputes the level name. Returns the
// new xp total.
func (g *Gamification) AddXP(userID uint, amount int) (int, error) {
	var newXP int
	err := g.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		newXP, err = g.addXP(tx, userID, amount)
		return err
	})
	return newXP, err
}

// addXP is the in-transaction body shared by the other operations. The
// increment is pushed down to SQL so two concurrent calls cannot overwrite
// each other's update.
func (g *Gamification) addXP(tx *gorm.DB, userID uint, amount int) (int, error) {
	result := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("xp", gorm.Expr("xp + ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var user models.User
	if err := tx.Select("xp").First(&user, userID).Error; err != nil {
		return 0, err
	}

	level := GetLevel(user.XP).Level.Name
	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("level", level).Error; err != nil {
		return 0, err
	}

	return user.XP, nil
}

// SetXP overwrites xp with an explicit value. Only the admin XP adjustment
// goes through here; everything else accumulates via AddXP.
func (g *Gamification) SetXP(userID uint, xp int) error {
	level := GetLevel(xp).Level.Name
	return g.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"xp": xp, "level": level}).Error
}

// UpdateStreak advances the user's daily activity streak. Calling it again
// on the same calendar day is a no-op. Activity on the day right after the
// last one extends the streak and grants the daily bonus; any longer gap
// (including the very first activity) resets the streak to 1.
func (g *Gamification) UpdateStreak(userID uint) (int, error) {
	// resolved up front: the provider queries the pooled handle, which would
	// starve a capped pool if done while the transaction holds a connection
	amounts := g.Amounts()

	var streak int
	err := g.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		today := g.now().Format(dateLayout)
		if user.LastActivityDate == today {
			streak = user.StreakCount
			return nil
		}

		yesterday := g.now().AddDate(0, 0, -1).Format(dateLayout)
		if user.LastActivityDate == yesterday {
			streak = user.StreakCount + 1
			if _, err := g.addXP(tx, userID, amounts.DailyStreak); err != nil {
				return err
			}
		} else {
			streak = 1
		}

		return tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"streak_count":       streak,
				"last_activity_date": today,
			}).Error
	})
	return streak, err
}

// CheckBadges recomputes the user's counters, evaluates every badge predicate
// and awards whatever newly qualifies. Already-earned badges are never
// re-awarded. Each new badge grants the badge bonus and files a notification.
// Returns the newly earned definitions in catalogue order.
func (g *Gamification) CheckBadges(userID uint) ([]BadgeDef, error) {
	amounts := g.Amounts()

	var earned []BadgeDef
	err := g.DB.Transaction(func(tx *gorm.DB) error {
		stats, err := g.collectStats(tx, userID)
		if err != nil {
			return err
		}

		var existing []models.UserBadge
		if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, badge := range existing {
			have[badge.BadgeKey] = true
		}

		for _, def := range Badges {
			if have[def.Key] || !def.Earned(stats) {
				continue
			}

			result := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.UserBadge{UserID: userID, BadgeKey: def.Key})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// another request got there first
				continue
			}

			if _, err := g.addXP(tx, userID, amounts.EarnBadge); err != nil {
				return err
			}

			notification := models.Notification{
				UserID:  userID,
				Message: fmt.Sprintf("Yangi nishon: %s %s", def.Icon, def.Name),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}

			earned = append(earned, def)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return earned, nil
}

// GetUserBadges returns all earned badge rows, newest first.
func (g *Gamification) GetUserBadges(userID uint) ([]models.UserBadge, error) {
	var badges []models.UserBadge
	err := g.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&badges).Error
	return badges, err
}

func (g *Gamification) collectStats(tx *gorm.DB, userID uint) (UserStats, error) {
	var stats UserStats

	var books int64
	if err := tx.Model(&models.ReadingLog{}).Where("user_id = ?", userID).
		Count(&books).Error; err != nil {
		return stats, err
	}
	stats.Books = int(books)

	var pages int64
	if err := tx.Model(&models.ReadingLog{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(pages), 0)").Scan(&pages).Error; err != nil {
		return stats, err
	}
	stats.Pages = int(pages)

	var attempts int64
	if err := tx.Model(&models.Result{}).Where("user_id = ?", userID).
		Count(&attempts).Error; err != nil {
		return stats, err
	}
	stats.Attempts = int(attempts)

	var perfect int64
	if err := tx.Model(&models.Result{}).Where("user_id = ? AND score >= 100", userID).
		Count(&perfect).Error; err != nil {
		return stats, err
	}
	stats.Perfect = int(perfect)

	var approved int64
	if err := tx.Model(&models.ReadingLog{}).Where("user_id = ? AND approved = ?", userID, true).
		Count(&approved).Error; err != nil {
		return stats, err
	}
	stats.Approved = int(approved)

	var user models.User
	if err := tx.Select("streak_count").First(&user, userID).Error; err != nil {
		return stats, err
	}
	stats.Streak = user.StreakCount

	return stats, nil
}
