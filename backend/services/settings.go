package services

import (
	"strconv"
	"strings"

	"kitobxon/backend/models"

	"gorm.io/gorm"
)

// SettingsProvider supplies runtime configuration values (admin-editable
// system settings). The engine takes it as a dependency so tests can inject
// a fixed set instead of a database.
type SettingsProvider interface {
	Get(key string) (string, bool)
}

// DBSettings reads settings from the system_settings table. Reads are not
// cached: an admin change takes effect on the next gamification call.
type DBSettings struct {
	DB *gorm.DB
}

func (s *DBSettings) Get(key string) (string, bool) {
	var setting models.SystemSetting
	if err := s.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", false
	}
	return setting.Value, true
}

// XPAmounts holds how much XP each kind of activity is worth.
type XPAmounts struct {
	AddBook         int
	CompleteTest    int
	PerfectTest     int
	ApprovedSummary int
	DailyStreak     int
	EarnBadge       int
}

func DefaultXPAmounts() XPAmounts {
	return XPAmounts{
		AddBook:         10,
		CompleteTest:    15,
		PerfectTest:     30,
		ApprovedSummary: 20,
		DailyStreak:     5,
		EarnBadge:       25,
	}
}

// ResolveXPAmounts overlays admin overrides from settings onto the defaults.
// Called once per engine entry point.
func ResolveXPAmounts(settings SettingsProvider) XPAmounts {
	amounts := DefaultXPAmounts()
	overrideAmount(settings, "xp_add_book", &amounts.AddBook)
	overrideAmount(settings, "xp_complete_test", &amounts.CompleteTest)
	overrideAmount(settings, "xp_perfect_test", &amounts.PerfectTest)
	overrideAmount(settings, "xp_approved_summary", &amounts.ApprovedSummary)
	overrideAmount(settings, "xp_daily_streak", &amounts.DailyStreak)
	overrideAmount(settings, "xp_earn_badge", &amounts.EarnBadge)
	return amounts
}

func overrideAmount(settings SettingsProvider, key string, dst *int) {
	raw, ok := settings.Get(key)
	if !ok {
		return
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return
	}
	*dst = value
}
