package controllers

import (
	"errors"

	"kitobxon/backend/config"
	"kitobxon/backend/models"
	"kitobxon/backend/services"
	"kitobxon/backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type RegisterInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	StudentID string `json:"student_id"`
	Password  string `json:"password" validate:"required,min=6"`
	ClassName string `json:"class_name"`
}

// Register godoc
// @Summary Register a new student
// @Description Creates a student account identified by student_id or email
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterInput true "Registration data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	settings := services.DBSettings{DB: ac.DB}
	if open, ok := settings.Get("registration_open"); ok && open != "true" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Ro'yxatdan o'tish vaqtincha yopiq",
		})
	}

	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}
	// students carry exactly one identity, email or student id
	if (input.Email == "") == (input.StudentID == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email yoki o'quvchi ID dan bittasini kiriting",
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
		Role:         "student",
		ClassName:    input.ClassName,
		Level:        services.Levels[0].Name,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create user",
		})
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  publicUser(user),
	})
}

type LoginInput struct {
	Login    string `json:"login" validate:"required"` // email or student id
	Password string `json:"password" validate:"required"`
}

// Login godoc
// @Summary User login
// @Description Authenticate by email or student_id and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	var user models.User
	err := ac.DB.Where("email = ? OR student_id = ?", input.Login, input.Login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Login yoki parol noto'g'ri",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Login yoki parol noto'g'ri",
		})
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  publicUser(user),
	})
}

func publicUser(user models.User) fiber.Map {
	return fiber.Map{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"student_id": user.StudentID,
		"role":       user.Role,
		"class_name": user.ClassName,
		"xp":         user.XP,
		"level":      user.Level,
		"streak":     user.StreakCount,
		"theme":      user.Theme,
		"avatar":     user.Avatar,
	}
}

func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fieldError := range fieldErrors {
			details[fieldError.Field()] = fieldError.Tag()
		}
	}
	return details
}
