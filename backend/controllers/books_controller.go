package controllers

import (
	"errors"
	"strconv"

	"kitobxon/backend/config"
	"kitobxon/backend/middleware"
	"kitobxon/backend/models"
	"kitobxon/backend/services"
	"kitobxon/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BooksController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *services.Gamification
}

func NewBooksController(db *gorm.DB, cfg *config.Config, engine *services.Gamification) *BooksController {
	return &BooksController{DB: db, Cfg: cfg, Engine: engine}
}

func (bc *BooksController) GetBooks(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var logs []models.ReadingLog
	if err := bc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(logs)
}

func (bc *BooksController) GetBook(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	role := middleware.CurrentRole(c)

	bookID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid book ID",
		})
	}

	var log models.ReadingLog
	if err := bc.DB.First(&log, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Book not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if log.UserID != userID && role == "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	return c.JSON(log)
}

type BookInput struct {
	BookTitle string `json:"book_title" validate:"required"`
	Author    string `json:"author"`
	Pages     int    `json:"pages" validate:"gte=0"`
	ReadDate  string `json:"read_date"`
	Summary   string `json:"summary"`
}

// CreateBook records a finished book and runs the full gamification pass:
// book XP, streak update, badge scan. The response carries whatever changed
// so the frontend can show it immediately.
func (bc *BooksController) CreateBook(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var input BookInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	log := models.ReadingLog{
		UserID:    userID,
		BookTitle: input.BookTitle,
		Author:    input.Author,
		Pages:     input.Pages,
		ReadDate:  input.ReadDate,
		Summary:   input.Summary,
	}
	if err := bc.DB.Create(&log).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save book",
		})
	}

	amounts := bc.Engine.Amounts()
	newXP, err := bc.Engine.AddXP(userID, amounts.AddBook)
	if err != nil {
		utils.Sugar.Errorw("add xp failed", "user_id", userID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}

	streak, err := bc.Engine.UpdateStreak(userID)
	if err != nil {
		utils.Sugar.Errorw("streak update failed", "user_id", userID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}

	newBadges, err := bc.Engine.CheckBadges(userID)
	if err != nil {
		utils.Sugar.Errorw("badge check failed", "user_id", userID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}

	var user models.User
	bc.DB.First(&user, userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"book":       log,
		"xp":         newXP,
		"xp_total":   user.XP,
		"level":      user.Level,
		"streak":     streak,
		"new_badges": newBadges,
	})
}

func (bc *BooksController) DeleteBook(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	bookID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid book ID",
		})
	}

	var log models.ReadingLog
	if err := bc.DB.First(&log, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Book not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// a reading log is deleted only by its owner
	if log.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	if err := bc.DB.Delete(&log).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete book",
		})
	}

	return c.JSON(fiber.Map{"message": "Kitob o'chirildi"})
}
