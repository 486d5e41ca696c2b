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

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var books int64
	uc.DB.Model(&models.ReadingLog{}).Where("user_id = ?", userID).Count(&books)

	profile := publicUser(user)
	profile["books_read"] = books
	profile["level_info"] = services.GetLevel(user.XP)

	return c.JSON(profile)
}

type ProfileInput struct {
	Name   string `json:"name"`
	Theme  string `json:"theme"`
	Avatar string `json:"avatar"`
}

func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var input ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Theme != "" {
		updates["theme"] = input.Theme
	}
	if input.Avatar != "" {
		updates["avatar"] = input.Avatar
	}
	if len(updates) > 0 {
		if err := uc.DB.Model(&models.User{}).Where("id = ?", userID).
			Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update profile",
			})
		}
	}

	var user models.User
	uc.DB.First(&user, userID)
	return c.JSON(publicUser(user))
}
