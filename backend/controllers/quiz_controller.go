package controllers

import (
	"encoding/json"
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

type QuizController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *services.Gamification
}

func NewQuizController(db *gorm.DB, cfg *config.Config, engine *services.Gamification) *QuizController {
	return &QuizController{DB: db, Cfg: cfg, Engine: engine}
}

// GetQuiz returns the quiz for a reading log, generating and persisting it on
// first access. A log has at most one quiz; repeated calls return the stored
// one unchanged.
func (qc *QuizController) GetQuiz(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	bookID, err := strconv.Atoi(c.Params("bookId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid book ID",
		})
	}

	var log models.ReadingLog
	if err := qc.DB.First(&log, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Book not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if log.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	quiz, questions, err := qc.getOrCreateQuiz(log)
	if err != nil {
		utils.Sugar.Errorw("quiz generation failed", "book_id", bookID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}

	return c.JSON(fiber.Map{
		"quiz_id":  quiz.ID,
		"book_id":  log.ID,
		"savollar": questions,
	})
}

func (qc *QuizController) getOrCreateQuiz(log models.ReadingLog) (models.Quiz, []services.Question, error) {
	var quiz models.Quiz
	err := qc.DB.Where("reading_log_id = ?", log.ID).First(&quiz).Error
	if err == nil {
		var questions []services.Question
		if err := json.Unmarshal([]byte(quiz.Savollar), &questions); err != nil {
			return quiz, nil, err
		}
		return quiz, questions, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return quiz, nil, err
	}

	questions := services.GenerateQuiz(log.Summary, log.BookTitle, log.Author)
	serialized, err := json.Marshal(questions)
	if err != nil {
		return quiz, nil, err
	}

	quiz = models.Quiz{ReadingLogID: log.ID, Savollar: string(serialized)}
	if err := qc.DB.Create(&quiz).Error; err != nil {
		return quiz, nil, err
	}
	return quiz, questions, nil
}

type SubmitInput struct {
	Answers []*string `json:"answers"`
}

// SubmitQuiz grades a submission, stores the result and runs the test-side
// gamification: completion XP, the perfect bonus at 100% and a badge scan.
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	bookID, err := strconv.Atoi(c.Params("bookId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid book ID",
		})
	}

	var input SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var quiz models.Quiz
	err = qc.DB.Joins("JOIN reading_logs ON reading_logs.id = quizzes.reading_log_id").
		Where("quizzes.reading_log_id = ? AND reading_logs.user_id = ?", bookID, userID).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var questions []services.Question
	if err := json.Unmarshal([]byte(quiz.Savollar), &questions); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}

	score := services.ScoreQuiz(questions, input.Answers)

	serializedAnswers, _ := json.Marshal(input.Answers)
	result := models.Result{
		QuizID:  quiz.ID,
		UserID:  userID,
		Answers: string(serializedAnswers),
		Score:   score.Percent,
	}
	if err := qc.DB.Create(&result).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save result",
		})
	}

	amounts := qc.Engine.Amounts()
	if _, err := qc.Engine.AddXP(userID, amounts.CompleteTest); err != nil {
		utils.Sugar.Errorw("add xp failed", "user_id", userID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}
	if score.Percent >= 100 {
		if _, err := qc.Engine.AddXP(userID, amounts.PerfectTest); err != nil {
			utils.Sugar.Errorw("add xp failed", "user_id", userID, "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Server xatosi",
			})
		}
	}

	newBadges, err := qc.Engine.CheckBadges(userID)
	if err != nil {
		utils.Sugar.Errorw("badge check failed", "user_id", userID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server xatosi",
		})
	}

	notification := models.Notification{
		UserID: userID,
		Message: fmt.Sprintf("Test yakunlandi: %d%% (%d/%d to'g'ri javob)",
			score.Percent, score.Correct, score.Total),
	}
	qc.DB.Create(&notification)

	var user models.User
	qc.DB.First(&user, userID)

	return c.JSON(fiber.Map{
		"score":      score,
		"xp_total":   user.XP,
		"level":      user.Level,
		"new_badges": newBadges,
	})
}

func (qc *QuizController) GetResults(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var results []models.Result
	if err := qc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&results).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var response []fiber.Map
	for _, result := range results {
		var quiz models.Quiz
		var log models.ReadingLog
		qc.DB.First(&quiz, result.QuizID)
		qc.DB.First(&log, quiz.ReadingLogID)

		response = append(response, fiber.Map{
			"id":         result.ID,
			"quiz_id":    result.QuizID,
			"book_title": log.BookTitle,
			"score":      result.Score,
			"created_at": result.CreatedAt,
		})
	}

	return c.JSON(response)
}
