package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"kitobxon/backend/config"
	"kitobxon/backend/models"
	"kitobxon/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{JWTSecret: "testsecret"}
	require.NoError(t, utils.InitLogger(&config.Config{LogLevel: "error"}))

	app := fiber.New()
	SetupRoutes(app, db, cfg)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func registerStudent(t *testing.T, app *fiber.App, studentID string) string {
	t.Helper()
	status, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":       "Aziz Karimov",
		"student_id": studentID,
		"password":   "parol123",
		"class_name": "7-A",
	})
	require.Equal(t, fiber.StatusOK, status)
	token, _ := result["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createStaff(t *testing.T, app *fiber.App, db *gorm.DB, email, role string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("parol123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{
		Name:         "Nilufar Ahmedova",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Level:        "Yangi",
	}
	require.NoError(t, db.Create(&user).Error)

	status, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"login":    email,
		"password": "parol123",
	})
	require.Equal(t, fiber.StatusOK, status)
	token, _ := result["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	token := registerStudent(t, app, "S-1001")

	status, profile := doJSON(t, app, "GET", "/api/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Aziz Karimov", profile["name"])
	assert.Equal(t, "student", profile["role"])
	assert.EqualValues(t, 0, profile["xp"])
	assert.Equal(t, "Yangi", profile["level"])

	status, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"login":    "S-1001",
		"password": "parol123",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, result["token"])
}

func TestRegisterRejectsDoubleIdentity(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":       "Aziz",
		"student_id": "S-1",
		"email":      "aziz@example.com",
		"password":   "parol123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     "Aziz",
		"password": "parol123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

const summary = "Otabek savdogar oilasida tug'ilgan edi. U Toshkentga safar qilganda Kumushbibini uchratdi. " +
	"Ikki yosh bir-birini sevib qoldi va oilalar o'rtasida kelishuv boshlandi. " +
	"Asar qahramonlari taqdiri o'quvchini befarq qoldirmaydi."

// A fresh student logging a first book earns the book XP, a streak of 1 and
// the first_book badge in one request.
func TestBookGamificationFlow(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerStudent(t, app, "S-1001")

	status, result := doJSON(t, app, "POST", "/api/books/", token, map[string]interface{}{
		"book_title": "O'tkan kunlar",
		"author":     "Abdulla Qodiriy",
		"pages":      300,
		"read_date":  "2026-08-20",
		"summary":    summary,
	})
	require.Equal(t, fiber.StatusCreated, status)

	// 10 for the book + 25 for first_book
	assert.EqualValues(t, 35, result["xp_total"])
	assert.Equal(t, "Yangi", result["level"])
	assert.EqualValues(t, 1, result["streak"])

	newBadges, ok := result["new_badges"].([]interface{})
	require.True(t, ok)
	require.Len(t, newBadges, 1)
	badge := newBadges[0].(map[string]interface{})
	assert.Equal(t, "first_book", badge["key"])

	status, level := doJSON(t, app, "GET", "/api/gamification/level", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 35, level["xp"])

	status, badges := doJSON(t, app, "GET", "/api/gamification/badges", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	earned, _ := badges["earned"].([]interface{})
	assert.Len(t, earned, 1)
}

func TestQuizFlow(t *testing.T) {
	app, db := newTestApp(t)
	token := registerStudent(t, app, "S-1001")

	status, created := doJSON(t, app, "POST", "/api/books/", token, map[string]interface{}{
		"book_title": "O'tkan kunlar",
		"author":     "Abdulla Qodiriy",
		"pages":      300,
		"summary":    summary,
	})
	require.Equal(t, fiber.StatusCreated, status)
	book := created["book"].(map[string]interface{})
	bookID := int(book["ID"].(float64))

	status, quiz := doJSON(t, app, "GET", fmt.Sprintf("/api/quizzes/%d", bookID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	questions, ok := quiz["savollar"].([]interface{})
	require.True(t, ok)
	require.Len(t, questions, 10)

	// the quiz is generated once; a second fetch returns the stored one
	status, again := doJSON(t, app, "GET", fmt.Sprintf("/api/quizzes/%d", bookID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, quiz["quiz_id"], again["quiz_id"])
	var quizCount int64
	db.Model(&models.Quiz{}).Count(&quizCount)
	assert.EqualValues(t, 1, quizCount)

	answers := make([]*string, 10) // all blank, scores zero
	status, submitted := doJSON(t, app, "POST", fmt.Sprintf("/api/quizzes/%d/submit", bookID), token,
		map[string]interface{}{"answers": answers})
	require.Equal(t, fiber.StatusOK, status)

	score := submitted["score"].(map[string]interface{})
	assert.EqualValues(t, 0, score["percent"])
	assert.EqualValues(t, 10, score["total"])

	// 35 from the book flow + 15 for completing the test, first_test badge +25
	assert.EqualValues(t, 75, submitted["xp_total"])
	assert.Equal(t, "O'quvchi", submitted["level"])

	newBadges, _ := submitted["new_badges"].([]interface{})
	require.Len(t, newBadges, 1)
	assert.Equal(t, "first_test", newBadges[0].(map[string]interface{})["key"])
}

func TestTeacherApprovalFlow(t *testing.T) {
	app, db := newTestApp(t)
	studentToken := registerStudent(t, app, "S-1001")
	teacherToken := createStaff(t, app, db, "teacher@school.uz", "teacher")

	status, _ := doJSON(t, app, "POST", "/api/books/", studentToken, map[string]interface{}{
		"book_title": "O'tkan kunlar",
		"pages":      300,
		"summary":    summary,
	})
	require.Equal(t, fiber.StatusCreated, status)

	// students cannot reach teacher routes
	status, _ = doJSON(t, app, "GET", "/api/teacher/summaries", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	req := httptest.NewRequest("GET", "/api/teacher/summaries", nil)
	req.Header.Set("Authorization", teacherToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var pending []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pending))
	require.Len(t, pending, 1)
	summaryID := int(pending[0]["id"].(float64))

	status, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/teacher/summaries/%d/approve", summaryID), teacherToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	// 35 from the book flow + 20 approval + 25 approved_1 badge
	var student models.User
	require.NoError(t, db.Where("student_id = ?", "S-1001").First(&student).Error)
	assert.Equal(t, 80, student.XP)

	// approving twice conflicts
	status, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/teacher/summaries/%d/approve", summaryID), teacherToken, nil)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestAdminRoutes(t *testing.T) {
	app, db := newTestApp(t)
	studentToken := registerStudent(t, app, "S-1001")
	adminToken := createStaff(t, app, db, "admin@school.uz", "admin")

	status, _ := doJSON(t, app, "GET", "/api/admin/stats", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, stats := doJSON(t, app, "GET", "/api/admin/stats", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, stats["students"])

	// xp override is allowed to lower xp and recomputes the level
	var student models.User
	require.NoError(t, db.Where("student_id = ?", "S-1001").First(&student).Error)
	status, updated := doJSON(t, app, "PUT", fmt.Sprintf("/api/admin/users/%d/xp", student.ID), adminToken,
		map[string]int{"xp": 700})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 700, updated["xp"])
	assert.Equal(t, "Ustoz", updated["level"])

	status, _ = doJSON(t, app, "PUT", "/api/admin/settings", adminToken, map[string]string{
		"key":   "xp_add_book",
		"value": "50",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, settings := doJSON(t, app, "GET", "/api/admin/settings", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "50", settings["xp_add_book"])

	// the override takes effect on the very next book
	status, created := doJSON(t, app, "POST", "/api/books/", studentToken, map[string]interface{}{
		"book_title": "Mehrobdan chayon",
		"pages":      200,
		"summary":    summary,
	})
	require.Equal(t, fiber.StatusCreated, status)
	// 700 + 50 book + 25 first_book badge
	assert.EqualValues(t, 775, created["xp_total"])

	status, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/admin/users/%d", student.ID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	var logs int64
	db.Model(&models.ReadingLog{}).Count(&logs)
	assert.EqualValues(t, 0, logs)
}

func TestRegistrationToggle(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Model(&models.SystemSetting{}).
		Where("key = ?", "registration_open").
		Update("value", "false").Error)

	status, _ := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":       "Aziz",
		"student_id": "S-1",
		"password":   "parol123",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}
