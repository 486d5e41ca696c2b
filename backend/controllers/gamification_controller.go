package controllers

import (
	"errors"

	"kitobxon/backend/config"
	"kitobxon/backend/middleware"
	"kitobxon/backend/models"
	"kitobxon/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GamificationController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *services.Gamification
}

func NewGamificationController(db *gorm.DB, cfg *config.Config, engine *services.Gamification) *GamificationController {
	return &GamificationController{DB: db, Cfg: cfg, Engine: engine}
}

// GetLevel godoc
// @Summary Get level and progress
// @Description Returns the caller's xp, level tier, next tier and progress
// @Tags gamification
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /gamification/level [get]
func (gc *GamificationController) GetLevel(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := gc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	info := services.GetLevel(user.XP)
	return c.JSON(fiber.Map{
		"xp":        user.XP,
		"level":     info.Level,
		"nextLevel": info.NextLevel,
		"progress":  info.Progress,
		"streak":    user.StreakCount,
	})
}

func (gc *GamificationController) GetBadges(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	earned, err := gc.Engine.GetUserBadges(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var badges []fiber.Map
	for _, row := range earned {
		def := services.BadgeByKey(row.BadgeKey)
		if def == nil {
			continue
		}
		badges = append(badges, fiber.Map{
			"key":       def.Key,
			"name":      def.Name,
			"icon":      def.Icon,
			"desc":      def.Desc,
			"earned_at": row.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"earned": badges,
		"total":  len(services.Badges),
	})
}

// Leaderboard lists the top students by XP.
func (gc *GamificationController) Leaderboard(c *fiber.Ctx) error {
	var users []models.User
	if err := gc.DB.Where("role = ?", "student").
		Order("xp DESC").Limit(10).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var board []fiber.Map
	for rank, user := range users {
		board = append(board, fiber.Map{
			"rank":       rank + 1,
			"name":       user.Name,
			"class_name": user.ClassName,
			"xp":         user.XP,
			"level":      user.Level,
			"avatar":     user.Avatar,
		})
	}

	return c.JSON(board)
}
