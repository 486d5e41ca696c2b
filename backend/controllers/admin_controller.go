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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *services.Gamification
}

func NewAdminController(db *gorm.DB, cfg *config.Config, engine *services.Gamification) *AdminController {
	return &AdminController{DB: db, Cfg: cfg, Engine: engine}
}

func (ac *AdminController) GetUsers(c *fiber.Ctx) error {
	query := ac.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var response []fiber.Map
	for _, user := range users {
		response = append(response, publicUser(user))
	}
	return c.JSON(response)
}

type AdminUserInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	StudentID string `json:"student_id"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,oneof=student teacher admin"`
	ClassName string `json:"class_name"`
}

// CreateUser lets an admin add accounts of any role. Creating another admin
// requires superadmin.
func (ac *AdminController) CreateUser(c *fiber.Ctx) error {
	var input AdminUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}
	if input.Role == "admin" && middleware.CurrentRole(c) != "superadmin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		StudentID:    input.StudentID,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		ClassName:    input.ClassName,
		Level:        services.Levels[0].Name,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(publicUser(user))
}

// DeleteUser removes an account and everything it owns.
func (ac *AdminController) DeleteUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if user.Role == "superadmin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	// cascade by hand so it behaves the same on sqlite and postgres
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var logIDs []uint
		if err := tx.Model(&models.ReadingLog{}).Where("user_id = ?", user.ID).
			Pluck("id", &logIDs).Error; err != nil {
			return err
		}
		if len(logIDs) > 0 {
			var quizIDs []uint
			if err := tx.Model(&models.Quiz{}).Where("reading_log_id IN ?", logIDs).
				Pluck("id", &quizIDs).Error; err != nil {
				return err
			}
			if len(quizIDs) > 0 {
				if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.Result{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", quizIDs).Delete(&models.Quiz{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", logIDs).Delete(&models.ReadingLog{}).Error; err != nil {
				return err
			}
		}
		for _, model := range []interface{}{
			&models.Result{}, &models.ReadingPlan{}, &models.UserBadge{}, &models.Notification{},
		} {
			if err := tx.Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		utils.Sugar.Errorw("user delete failed", "user_id", user.ID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete user",
		})
	}

	return c.JSON(fiber.Map{"message": "Foydalanuvchi o'chirildi"})
}

type XPInput struct {
	XP int `json:"xp" validate:"gte=0"`
}

// AdjustXP overwrites a user's xp. The only sanctioned way xp can go down.
func (ac *AdminController) AdjustXP(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var input XPInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	if err := ac.Engine.SetXP(uint(userID), input.XP); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update XP",
		})
	}

	var user models.User
	ac.DB.First(&user, userID)
	return c.JSON(publicUser(user))
}

func (ac *AdminController) GetSettings(c *fiber.Ctx) error {
	var settings []models.SystemSetting
	if err := ac.DB.Order("key ASC").Find(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	response := fiber.Map{}
	for _, setting := range settings {
		response[setting.Key] = setting.Value
	}
	return c.JSON(response)
}

type SettingInput struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

func (ac *AdminController) UpdateSetting(c *fiber.Ctx) error {
	var input SettingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	var setting models.SystemSetting
	err := ac.DB.Where("key = ?", input.Key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.SystemSetting{Key: input.Key, Value: input.Value}
		err = ac.DB.Create(&setting).Error
	} else if err == nil {
		err = ac.DB.Model(&setting).Update("value", input.Value).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save setting",
		})
	}

	return c.JSON(fiber.Map{"key": setting.Key, "value": input.Value})
}

// GetStats aggregates platform-wide reading statistics.
func (ac *AdminController) GetStats(c *fiber.Ctx) error {
	var students, teachers, books, quizzes, results int64
	var pages int64
	var avgScore float64

	ac.DB.Model(&models.User{}).Where("role = ?", "student").Count(&students)
	ac.DB.Model(&models.User{}).Where("role = ?", "teacher").Count(&teachers)
	ac.DB.Model(&models.ReadingLog{}).Count(&books)
	ac.DB.Model(&models.ReadingLog{}).Select("COALESCE(SUM(pages), 0)").Scan(&pages)
	ac.DB.Model(&models.Quiz{}).Count(&quizzes)
	ac.DB.Model(&models.Result{}).Count(&results)
	ac.DB.Model(&models.Result{}).Select("COALESCE(AVG(score), 0)").Scan(&avgScore)

	var topReaders []models.User
	ac.DB.Where("role = ?", "student").Order("xp DESC").Limit(5).Find(&topReaders)

	var top []fiber.Map
	for _, reader := range topReaders {
		top = append(top, fiber.Map{
			"name":  reader.Name,
			"xp":    reader.XP,
			"level": reader.Level,
		})
	}

	return c.JSON(fiber.Map{
		"students":    students,
		"teachers":    teachers,
		"books":       books,
		"pages":       pages,
		"quizzes":     quizzes,
		"results":     results,
		"avg_score":   avgScore,
		"top_readers": top,
	})
}
