package controllers

import (
	"errors"
	"strconv"

	"kitobxon/backend/config"
	"kitobxon/backend/middleware"
	"kitobxon/backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewNotificationsController(db *gorm.DB, cfg *config.Config) *NotificationsController {
	return &NotificationsController{DB: db, Cfg: cfg}
}

func (nc *NotificationsController) GetNotifications(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var notifications []models.Notification
	if err := nc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(notifications)
}

func (nc *NotificationsController) MarkRead(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	notificationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	result := nc.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update notification",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	return c.JSON(fiber.Map{"message": "O'qildi deb belgilandi"})
}

func (nc *NotificationsController) DeleteNotification(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	notificationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	var notification models.Notification
	err = nc.DB.Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Notification not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := nc.DB.Delete(&notification).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete notification",
		})
	}

	return c.JSON(fiber.Map{"message": "Bildirishnoma o'chirildi"})
}
