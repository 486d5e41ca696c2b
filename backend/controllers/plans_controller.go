package controllers

import (
	"errors"
	"strconv"

	"kitobxon/backend/config"
	"kitobxon/backend/middleware"
	"kitobxon/backend/models"
	"kitobxon/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PlansController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPlansController(db *gorm.DB, cfg *config.Config) *PlansController {
	return &PlansController{DB: db, Cfg: cfg}
}

type PlanInput struct {
	BookTitle  string `json:"book_title" validate:"required"`
	Author     string `json:"author"`
	TargetDate string `json:"target_date"`
	Completed  *bool  `json:"completed"`
}

func (pc *PlansController) GetPlans(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var plans []models.ReadingPlan
	if err := pc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(plans)
}

func (pc *PlansController) CreatePlan(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var input PlanInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	plan := models.ReadingPlan{
		UserID:     userID,
		BookTitle:  input.BookTitle,
		Author:     input.Author,
		TargetDate: input.TargetDate,
	}
	if err := pc.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save plan",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (pc *PlansController) UpdatePlan(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	var plan models.ReadingPlan
	err = pc.DB.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Plan not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input PlanInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.BookTitle != "" {
		plan.BookTitle = input.BookTitle
	}
	if input.Author != "" {
		plan.Author = input.Author
	}
	if input.TargetDate != "" {
		plan.TargetDate = input.TargetDate
	}
	if input.Completed != nil {
		plan.Completed = *input.Completed
	}

	if err := pc.DB.Save(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update plan",
		})
	}

	return c.JSON(plan)
}

func (pc *PlansController) DeletePlan(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	result := pc.DB.Where("id = ? AND user_id = ?", planID, userID).
		Delete(&models.ReadingPlan{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete plan",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Reja o'chirildi"})
}
