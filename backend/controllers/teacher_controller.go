package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"kitobxon/backend/config"
	"kitobxon/backend/middleware"
	"kitobxon/backend/models"
	"kitobxon/backend/services"
	"kitobxon/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TeacherController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *services.Gamification
}

func NewTeacherController(db *gorm.DB, cfg *config.Config, engine *services.Gamification) *TeacherController {
	return &TeacherController{DB: db, Cfg: cfg, Engine: engine}
}

// GetPendingSummaries lists reading logs still waiting for review.
func (tc *TeacherController) GetPendingSummaries(c *fiber.Ctx) error {
	var logs []models.ReadingLog
	if err := tc.DB.Where("approved = ?", false).
		Order("created_at ASC").Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var response []fiber.Map
	for _, log := range logs {
		var student models.User
		if err := tc.DB.First(&student, log.UserID).Error; err != nil {
			continue
		}
		response = append(response, fiber.Map{
			"id":         log.ID,
			"book_title": log.BookTitle,
			"author":     log.Author,
			"pages":      log.Pages,
			"summary":    log.Summary,
			"created_at": log.CreatedAt,
			"student": fiber.Map{
				"id":         student.ID,
				"name":       student.Name,
				"class_name": student.ClassName,
			},
		})
	}

	return c.JSON(response)
}

// ApproveSummary marks a summary approved and rewards the student: approval
// XP plus a badge scan, with a notification either way.
func (tc *TeacherController) ApproveSummary(c *fiber.Ctx) error {
	reviewerID := middleware.CurrentUserID(c)

	logID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid summary ID",
		})
	}

	var log models.ReadingLog
	if err := tc.DB.First(&log, logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Summary not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if log.Approved {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Xulosa allaqachon tasdiqlangan",
		})
	}

	if err := tc.DB.Model(&log).Updates(map[string]interface{}{
		"approved":    true,
		"approved_by": reviewerID,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update summary",
		})
	}

	amounts := tc.Engine.Amounts()
	if _, err := tc.Engine.AddXP(log.UserID, amounts.ApprovedSummary); err != nil {
		utils.Sugar.Errorw("add xp failed", "user_id", log.UserID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}

	newBadges, err := tc.Engine.CheckBadges(log.UserID)
	if err != nil {
		utils.Sugar.Errorw("badge check failed", "user_id", log.UserID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}

	notification := models.Notification{
		UserID:  log.UserID,
		Message: fmt.Sprintf("\"%s\" kitobiga yozgan xulosangiz tasdiqlandi", log.BookTitle),
	}
	tc.DB.Create(&notification)

	return c.JSON(fiber.Map{
		"message":    "Xulosa tasdiqlandi",
		"new_badges": newBadges,
	})
}

// GetStudents returns all students with their reading counters, most active
// first.
func (tc *TeacherController) GetStudents(c *fiber.Ctx) error {
	query := tc.DB.Where("role = ?", "student")
	if className := c.Query("class"); className != "" {
		query = query.Where("class_name = ?", className)
	}

	var students []models.User
	if err := query.Order("xp DESC").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var response []fiber.Map
	for _, student := range students {
		var books int64
		tc.DB.Model(&models.ReadingLog{}).Where("user_id = ?", student.ID).Count(&books)

		response = append(response, fiber.Map{
			"id":         student.ID,
			"name":       student.Name,
			"student_id": student.StudentID,
			"class_name": student.ClassName,
			"xp":         student.XP,
			"level":      student.Level,
			"streak":     student.StreakCount,
			"books_read": books,
		})
	}

	return c.JSON(response)
}
