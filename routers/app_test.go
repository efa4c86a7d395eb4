package routers_test

import (
	"bytes"
	"context"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/routers"
	"edulearn/services/settlement"
	"edulearn/testutil"
	"edulearn/utils/media"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type stubUploader struct {
	uploads   int
	destroyed []string
}

func (s *stubUploader) Upload(_ context.Context, file *multipart.FileHeader) (*media.Asset, error) {
	s.uploads++
	return &media.Asset{
		URL:          "https://res.cloudinary.com/demo/image/upload/v1/" + file.Filename,
		PublicID:     file.Filename,
		ResourceType: models.ResourceImage,
	}, nil
}

func (s *stubUploader) Destroy(_ context.Context, url string) error {
	s.destroyed = append(s.destroyed, url)
	return nil
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Status     bool            `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	app, db, _ := setupWithMedia(t)
	return app, db
}

func setupWithMedia(t *testing.T) (*fiber.App, *gorm.DB, *stubUploader) {
	t.Helper()
	db := testutil.NewDB(t)

	stub := &stubUploader{}
	prev := media.Default
	media.Default = stub
	t.Cleanup(func() { media.Default = prev })

	return routers.New(), db, stub
}

func approve(t *testing.T, db *gorm.DB, course models.Course, student models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.CourseEnrollment{
		CourseID:  course.ID,
		StudentID: student.ID,
		Status:    models.EnrollmentApproved,
	}).Error)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoErrorf(t, json.Unmarshal(body, &env), "body: %s", body)
	return resp, env
}

func jsonRequest(method, url, auth string, body interface{}) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, url, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}

func multipartRequest(t *testing.T, method, url, auth string, fields map[string]string, fileField string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileField+".png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake image"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setup(t)

	fields := map[string]string{
		"fullname": "Rahim Uddin",
		"email":    "Rahim@Example.com",
		"password": "secret123",
		"role":     models.RoleStudent,
	}

	resp, env := do(t, app, multipartRequest(t, http.MethodPost, "/api/v1/user/register", "", fields, "avatar"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "rahim@example.com", user.Email)
	assert.Contains(t, user.Avatar, "avatar.png")
	assert.NotContains(t, string(env.Data), "secret123")

	resp, _ = do(t, app, multipartRequest(t, http.MethodPost, "/api/v1/user/register", "", fields, "avatar"))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/login", "", fiber.Map{
		"email": "rahim@example.com", "password": "wrong-password",
	}))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/login", "", fiber.Map{
		"email": "rahim@example.com", "password": "secret123",
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	var sawCookie bool
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.AccessTokenCookie {
			sawCookie = true
			assert.True(t, ck.HttpOnly)
		}
	}
	assert.True(t, sawCookie, "access token cookie not set")

	resp, env = do(t, app, jsonRequest(http.MethodGet, "/api/v1/user/me", "Bearer "+tokens.AccessToken, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), "rahim@example.com")

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/refresh-token", "", fiber.Map{
		"refreshToken": tokens.RefreshToken,
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setup(t)

	resp, env := do(t, app, multipartRequest(t, http.MethodPost, "/api/v1/user/register", "", map[string]string{
		"fullname": "Al",
		"email":    "not-an-email",
		"password": "123",
	}, ""))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var errs map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	for _, field := range []string{"fullname", "email", "password", "avatar"} {
		assert.Contains(t, errs, field)
	}
}

func TestSecondAdminIsRefused(t *testing.T) {
	app, db := setup(t)
	testutil.CreateUser(t, db, models.RoleAdmin)

	resp, _ := do(t, app, multipartRequest(t, http.MethodPost, "/api/v1/user/register", "", map[string]string{
		"fullname": "Second Admin",
		"email":    "admin2@example.com",
		"password": "secret123",
		"role":     models.RoleAdmin,
	}, "avatar"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRoleGating(t *testing.T) {
	app, db := setup(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	student := testutil.CreateUser(t, db, models.RoleStudent)

	resp, _ := do(t, app, jsonRequest(http.MethodGet, "/api/v1/user/me", "", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodGet, "/api/v1/user/me", "Bearer not-a-token", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, multipartRequest(t, http.MethodPost, "/api/v1/course/add-course", testutil.Bearer(t, student),
		map[string]string{"title": "Go", "description": "Learn Go", "price": "10"}, "image"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodGet, "/api/v1/user/all-users", testutil.Bearer(t, student), nil))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env := do(t, app, jsonRequest(http.MethodGet, "/api/v1/user/all-users?role=student", testutil.Bearer(t, admin), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), student.Email)
	assert.NotContains(t, string(env.Data), admin.Email)

	resp, _ = do(t, app, jsonRequest(http.MethodGet, "/api/v1/admin/dashboard/stats", testutil.Bearer(t, student), nil))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodGet, "/api/v1/admin/dashboard/stats", testutil.Bearer(t, admin), nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestInvalidRouteID(t *testing.T) {
	app, db := setup(t)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)

	resp, env := do(t, app, jsonRequest(http.MethodDelete, "/api/v1/course/abc", testutil.Bearer(t, instructor), nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid id!", env.Message)
}

func TestAddCourse(t *testing.T) {
	app, db := setup(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)

	resp, env := do(t, app, multipartRequest(t, http.MethodPost, "/api/v1/course/add-course", testutil.Bearer(t, instructor),
		map[string]string{"title": "Go in Practice", "description": "Services in Go", "price": "49.999"}, "image"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var course models.Course
	require.NoError(t, json.Unmarshal(env.Data, &course))
	assert.Equal(t, instructor.ID, course.CreatedBy)
	assert.Equal(t, admin.ID, course.AdminID)
	testutil.AssertAmount(t, "50", course.Price)

	resp, _ = do(t, app, multipartRequest(t, http.MethodPost, "/api/v1/course/add-course", testutil.Bearer(t, instructor),
		map[string]string{"title": "No image", "description": "Missing file", "price": "10"}, ""))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, app, multipartRequest(t, http.MethodPost, "/api/v1/course/add-course", testutil.Bearer(t, instructor),
		map[string]string{"title": "Negative", "description": "Bad price", "price": "-5"}, "image"))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestEnrollmentOverHTTP(t *testing.T) {
	app, db := setup(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	student := testutil.CreateUser(t, db, models.RoleStudent)
	testutil.CreateBank(t, db, admin, "1000")
	testutil.CreateBank(t, db, instructor, "0")
	testutil.CreateBank(t, db, student, "500")
	course := testutil.CreateCourse(t, db, instructor, admin.ID, "100")
	lecture := testutil.CreateLecture(t, db, course)

	enrollURL := fmt.Sprintf("/api/v1/course/enrolled/%d", course.ID)

	resp, _ := do(t, app, jsonRequest(http.MethodPost, enrollURL, testutil.Bearer(t, student), fiber.Map{"secretKey": "0000"}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	testutil.AssertAmount(t, "500", testutil.Balance(t, db, student.ID))

	resp, _ = do(t, app, jsonRequest(http.MethodPost, enrollURL, testutil.Bearer(t, instructor), fiber.Map{"secretKey": testutil.SecretKey}))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env := do(t, app, jsonRequest(http.MethodPost, enrollURL, testutil.Bearer(t, student), fiber.Map{"secretKey": testutil.SecretKey}))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	testutil.AssertAmount(t, "400", testutil.Balance(t, db, student.ID))
	testutil.AssertAmount(t, "1100", testutil.Balance(t, db, admin.ID))

	resp, _ = do(t, app, jsonRequest(http.MethodPost, enrollURL, testutil.Bearer(t, student), fiber.Map{"secretKey": testutil.SecretKey}))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodGet, "/api/v1/instructor/pending-enrollments", testutil.Bearer(t, instructor), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), student.Email)

	resp, _ = do(t, app, jsonRequest(http.MethodDelete, fmt.Sprintf("/api/v1/course/%d", course.ID), testutil.Bearer(t, instructor), nil))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	lecturesURL := fmt.Sprintf("/api/v1/course/%d/lectures", course.ID)
	resp, _ = do(t, app, jsonRequest(http.MethodGet, lecturesURL, testutil.Bearer(t, student), nil))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	decision := fiber.Map{"courseId": course.ID, "studentId": student.ID, "status": models.EnrollmentApproved}
	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/instructor-validation", testutil.Bearer(t, student), decision))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/instructor-validation", testutil.Bearer(t, instructor), decision))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	testutil.AssertAmount(t, "80", testutil.Balance(t, db, instructor.ID))
	testutil.AssertAmount(t, "1020", testutil.Balance(t, db, admin.ID))
	testutil.AssertAmount(t, "400", testutil.Balance(t, db, student.ID))

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/instructor-validation", testutil.Bearer(t, instructor), decision))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodGet, lecturesURL, testutil.Bearer(t, student), nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	completeURL := fmt.Sprintf("/api/v1/student/course/%d/lecture/%d/complete", course.ID, lecture.ID)
	resp, env = do(t, app, jsonRequest(http.MethodPost, completeURL, testutil.Bearer(t, student), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	resp, env = do(t, app, jsonRequest(http.MethodGet, fmt.Sprintf("/api/v1/student/course/%d/progress", course.ID), testutil.Bearer(t, student), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var progress struct {
		Completed     int     `json:"completed"`
		TotalLectures int     `json:"totalLectures"`
		Percentage    float64 `json:"percentage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &progress))
	assert.Equal(t, 1, progress.Completed)
	assert.Equal(t, 1, progress.TotalLectures)
	assert.Equal(t, 100.0, progress.Percentage)

	resp, env = do(t, app, jsonRequest(http.MethodGet, "/api/v1/bank/transactions", testutil.Bearer(t, student), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), models.TransactionApproved)
}

func TestRejectionRefundsOverHTTP(t *testing.T) {
	app, db := setup(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	student := testutil.CreateUser(t, db, models.RoleStudent)
	testutil.CreateBank(t, db, admin, "0")
	testutil.CreateBank(t, db, instructor, "0")
	testutil.CreateBank(t, db, student, "250")
	course := testutil.CreateCourse(t, db, instructor, admin.ID, "250")

	resp, env := do(t, app, jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/course/enrolled/%d", course.ID),
		testutil.Bearer(t, student), fiber.Map{"secretKey": testutil.SecretKey}))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	testutil.AssertAmount(t, "0", testutil.Balance(t, db, student.ID))

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/instructor-validation", testutil.Bearer(t, admin),
		fiber.Map{"courseId": course.ID, "studentId": student.ID, "status": models.EnrollmentRejected}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	testutil.AssertAmount(t, "250", testutil.Balance(t, db, student.ID))
	testutil.AssertAmount(t, "0", testutil.Balance(t, db, admin.ID))
	testutil.AssertAmount(t, "0", testutil.Balance(t, db, instructor.ID))

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/instructor-validation", testutil.Bearer(t, instructor),
		fiber.Map{"courseId": course.ID, "studentId": student.ID, "status": "maybe"}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestBankSetupAndTopUp(t *testing.T) {
	app, db := setup(t)
	student := testutil.CreateUser(t, db, models.RoleStudent)
	auth := testutil.Bearer(t, student)

	setupBody := fiber.Map{
		"provider":          models.ProviderBkash,
		"accountNumber":     "01712345678",
		"accountHolderName": student.Fullname,
		"balance":           "150.50",
		"secretKey":         "9876",
	}
	resp, env := do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/setup", auth, setupBody))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	assert.NotContains(t, string(env.Data), "9876")

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/setup", auth, setupBody))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/add-balance", auth, fiber.Map{
		"accountNumber": "01712345678", "balance": "10", "secretKey": "0000",
	}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/bank/add-balance", auth, fiber.Map{
		"accountNumber": "01712345678", "balance": "49.50", "secretKey": "9876",
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	testutil.AssertAmount(t, "200", testutil.Balance(t, db, student.ID))

	resp, env = do(t, app, jsonRequest(http.MethodGet, "/api/v1/bank/ledger", auth, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), string(models.EntryOpening))
	assert.Contains(t, string(env.Data), string(models.EntryTopUp))
}

func TestPublicCoursesNeedNoToken(t *testing.T) {
	app, db := setup(t)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	course := testutil.CreateCourse(t, db, instructor, 0, "10")

	resp, env := do(t, app, jsonRequest(http.MethodGet, "/api/v1/student/public-courses", "", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), course.Title)
}

func TestMCQLifecycle(t *testing.T) {
	app, db := setup(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	stranger := testutil.CreateUser(t, db, models.RoleInstructor)
	student := testutil.CreateUser(t, db, models.RoleStudent)
	outsider := testutil.CreateUser(t, db, models.RoleStudent)
	course := testutil.CreateCourse(t, db, instructor, admin.ID, "100")
	lecture := testutil.CreateLecture(t, db, course)
	approve(t, db, course, student)

	question := fiber.Map{
		"lectureId":  lecture.ID,
		"question":   "2 + 2 = ?",
		"option":     []string{"3", "4", "5"},
		"correctAns": "4",
	}

	resp, _ := do(t, app, jsonRequest(http.MethodPost, "/api/v1/instructor/create-mcq", testutil.Bearer(t, stranger), question))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/instructor/create-mcq", testutil.Bearer(t, student), question))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/instructor/create-mcq", testutil.Bearer(t, instructor), fiber.Map{
		"lectureId": lecture.ID, "question": "2 + 2 = ?", "option": []string{"3", "4"}, "correctAns": "22",
	}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, env := do(t, app, jsonRequest(http.MethodPost, "/api/v1/instructor/create-mcq", testutil.Bearer(t, instructor), question))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var mcq models.MCQ
	require.NoError(t, json.Unmarshal(env.Data, &mcq))
	assert.Equal(t, lecture.ID, mcq.LectureID)
	assert.Equal(t, "4", mcq.CorrectAns)

	listURL := fmt.Sprintf("/api/v1/instructor/get-mcq/%d", lecture.ID)

	resp, env = do(t, app, jsonRequest(http.MethodGet, listURL, testutil.Bearer(t, student), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), "2 + 2 = ?")
	assert.NotContains(t, string(env.Data), "correctAns")

	resp, env = do(t, app, jsonRequest(http.MethodGet, listURL, testutil.Bearer(t, instructor), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	var owned []models.MCQ
	require.NoError(t, json.Unmarshal(env.Data, &owned))
	require.Len(t, owned, 1)
	assert.Equal(t, "4", owned[0].CorrectAns)

	resp, _ = do(t, app, jsonRequest(http.MethodGet, listURL, testutil.Bearer(t, outsider), nil))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	answerURL := fmt.Sprintf("/api/v1/student/mcq/%d/answer", mcq.ID)
	var result struct {
		Correct    bool   `json:"correct"`
		CorrectAns string `json:"correctAns"`
	}

	resp, env = do(t, app, jsonRequest(http.MethodPost, answerURL, testutil.Bearer(t, student), fiber.Map{"answer": " 4 "}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Correct)

	resp, env = do(t, app, jsonRequest(http.MethodPost, answerURL, testutil.Bearer(t, student), fiber.Map{"answer": "5"}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.False(t, result.Correct)
	assert.Equal(t, "4", result.CorrectAns)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, answerURL, testutil.Bearer(t, outsider), fiber.Map{"answer": "4"}))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	updateURL := fmt.Sprintf("/api/v1/instructor/update-mcq/%d", mcq.ID)

	resp, _ = do(t, app, jsonRequest(http.MethodPatch, updateURL, testutil.Bearer(t, stranger), fiber.Map{"correctAns": "5"}))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPatch, updateURL, testutil.Bearer(t, instructor), fiber.Map{}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPatch, updateURL, testutil.Bearer(t, instructor), fiber.Map{"correctAns": "9"}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodPatch, updateURL, testutil.Bearer(t, instructor), fiber.Map{"correctAns": "5"}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	var stored models.MCQ
	require.NoError(t, db.First(&stored, mcq.ID).Error)
	assert.Equal(t, "5", stored.CorrectAns)
	assert.Equal(t, "2 + 2 = ?", stored.Question)

	deleteURL := fmt.Sprintf("/api/v1/instructor/delete-mcq/%d", mcq.ID)

	resp, _ = do(t, app, jsonRequest(http.MethodDelete, deleteURL, testutil.Bearer(t, stranger), nil))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodDelete, deleteURL, testutil.Bearer(t, instructor), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, answerURL, testutil.Bearer(t, student), fiber.Map{"answer": "5"}))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodGet, listURL, testutil.Bearer(t, instructor), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.NotContains(t, string(env.Data), "2 + 2 = ?")
}

func TestLoginLockout(t *testing.T) {
	app, db := setup(t)
	user := testutil.CreateUser(t, db, models.RoleStudent)

	for i := 0; i < 5; i++ {
		resp, _ := do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/login", "", fiber.Map{
			"email": user.Email, "password": "wrong-password",
		}))
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}

	// the right password is refused while the block lasts
	resp, env := do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/login", "", fiber.Map{
		"email": user.Email, "password": testutil.Password,
	}))
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, env.Message, "blocked")

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.BlockedUntil)
	assert.True(t, stored.BlockedUntil.After(time.Now()))

	require.NoError(t, db.Model(&stored).Update("blocked_until", time.Now().Add(-time.Minute)).Error)
	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/login", "", fiber.Map{
		"email": user.Email, "password": testutil.Password,
	}))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
}

func TestDeleteCascades(t *testing.T) {
	app, db, stub := setupWithMedia(t)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	course := testutil.CreateCourse(t, db, instructor, 0, "10")
	first := testutil.CreateLecture(t, db, course)
	second := testutil.CreateLecture(t, db, course)

	mcq := models.MCQ{
		LectureID:  first.ID,
		Question:   "Which keyword starts a goroutine?",
		Options:    datatypes.JSONSlice[string]{"go", "defer"},
		CorrectAns: "go",
		CreatedBy:  instructor.ID,
	}
	require.NoError(t, db.Create(&mcq).Error)

	auth := testutil.Bearer(t, instructor)

	resp, env := do(t, app, jsonRequest(http.MethodDelete, fmt.Sprintf("/api/v1/course/lectures/%d", first.ID), auth, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var lecture models.Lecture
	require.NoError(t, db.First(&lecture, first.ID).Error)
	assert.True(t, lecture.IsDeleted)
	require.NoError(t, db.First(&mcq, mcq.ID).Error)
	assert.True(t, mcq.IsDeleted)
	assert.Contains(t, stub.destroyed, first.Resource)

	require.NoError(t, db.First(&lecture, second.ID).Error)
	assert.False(t, lecture.IsDeleted)

	resp, env = do(t, app, jsonRequest(http.MethodDelete, fmt.Sprintf("/api/v1/course/%d", course.ID), auth, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var stored models.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.True(t, stored.IsDeleted)
	require.NoError(t, db.First(&lecture, second.ID).Error)
	assert.True(t, lecture.IsDeleted)

	resp, _ = do(t, app, jsonRequest(http.MethodGet, fmt.Sprintf("/api/v1/course/%d/lectures", course.ID), auth, nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateCourseAndMedia(t *testing.T) {
	app, db, stub := setupWithMedia(t)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	stranger := testutil.CreateUser(t, db, models.RoleInstructor)
	course := testutil.CreateCourse(t, db, instructor, 0, "10")
	lecture := testutil.CreateLecture(t, db, course)
	auth := testutil.Bearer(t, instructor)

	courseURL := fmt.Sprintf("/api/v1/course/%d", course.ID)

	resp, _ := do(t, app, jsonRequest(http.MethodPatch, courseURL, testutil.Bearer(t, stranger), fiber.Map{"title": "Taken over"}))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPatch, courseURL, auth, fiber.Map{"price": "-1"}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, env := do(t, app, jsonRequest(http.MethodPatch, courseURL, auth, fiber.Map{"title": "  Go Services  ", "price": "75.555"}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var stored models.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.Equal(t, "Go Services", stored.Title)
	assert.Equal(t, course.Description, stored.Description)
	testutil.AssertAmount(t, "75.56", stored.Price)

	resp, env = do(t, app, multipartRequest(t, http.MethodPatch, courseURL+"/image", auth, nil, "image"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.Contains(t, stored.Image, "image.png")
	assert.Equal(t, []string{course.Image}, stub.destroyed)

	resp, _ = do(t, app, multipartRequest(t, http.MethodPatch, courseURL+"/image", auth, nil, ""))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resourceURL := fmt.Sprintf("/api/v1/course/lectures/%d/resource", lecture.ID)

	resp, _ = do(t, app, multipartRequest(t, http.MethodPatch, resourceURL, testutil.Bearer(t, stranger), nil, "resource"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env = do(t, app, multipartRequest(t, http.MethodPatch, resourceURL, auth, nil, "resource"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var storedLecture models.Lecture
	require.NoError(t, db.First(&storedLecture, lecture.ID).Error)
	assert.Contains(t, storedLecture.Resource, "resource.png")
	assert.Equal(t, []string{course.Image, lecture.Resource}, stub.destroyed)
}

func TestAvailableCoursesSkipRequested(t *testing.T) {
	app, db := setup(t)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	student := testutil.CreateUser(t, db, models.RoleStudent)

	pending := testutil.CreateCourse(t, db, instructor, 0, "10")
	rejected := testutil.CreateCourse(t, db, instructor, 0, "10")
	approved := testutil.CreateCourse(t, db, instructor, 0, "10")
	open := testutil.CreateCourse(t, db, instructor, 0, "10")
	removed := testutil.CreateCourse(t, db, instructor, 0, "10")
	require.NoError(t, db.Model(&removed).Update("is_deleted", true).Error)

	for course, status := range map[uint]string{
		pending.ID:  models.EnrollmentPending,
		rejected.ID: models.EnrollmentRejected,
		approved.ID: models.EnrollmentApproved,
	} {
		require.NoError(t, db.Create(&models.CourseEnrollment{CourseID: course, StudentID: student.ID, Status: status}).Error)
	}

	resp, env := do(t, app, jsonRequest(http.MethodGet, "/api/v1/student/available-course", testutil.Bearer(t, student), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var courses []models.Course
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, open.ID, courses[0].ID)
}

func TestDashboardStats(t *testing.T) {
	app, db := setup(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	first := testutil.CreateUser(t, db, models.RoleStudent)
	second := testutil.CreateUser(t, db, models.RoleStudent)
	testutil.CreateBank(t, db, admin, "0")
	testutil.CreateBank(t, db, instructor, "0")
	testutil.CreateBank(t, db, first, "500")
	testutil.CreateBank(t, db, second, "500")
	course := testutil.CreateCourse(t, db, instructor, admin.ID, "100")
	testutil.CreateCourse(t, db, instructor, admin.ID, "40")

	_, err := settlement.RequestEnrollment(db, first.ID, course.ID, testutil.SecretKey)
	require.NoError(t, err)
	_, err = settlement.DecideEnrollment(db, instructor.ID, course.ID, first.ID, models.EnrollmentApproved)
	require.NoError(t, err)
	_, err = settlement.RequestEnrollment(db, second.ID, course.ID, testutil.SecretKey)
	require.NoError(t, err)

	resp, env := do(t, app, jsonRequest(http.MethodGet, "/api/v1/admin/dashboard/stats", testutil.Bearer(t, admin), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var stats struct {
		UsersByRole          map[string]int64 `json:"usersByRole"`
		TotalCourses         int64            `json:"totalCourses"`
		PendingEnrollments   int64            `json:"pendingEnrollments"`
		TransactionsByStatus map[string]int64 `json:"transactionsByStatus"`
		Commission           struct {
			Total     decimal.Decimal `json:"total"`
			ThisMonth decimal.Decimal `json:"thisMonth"`
		} `json:"commission"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, map[string]int64{models.RoleAdmin: 1, models.RoleInstructor: 1, models.RoleStudent: 2}, stats.UsersByRole)
	assert.Equal(t, int64(2), stats.TotalCourses)
	assert.Equal(t, int64(1), stats.PendingEnrollments)
	assert.Equal(t, map[string]int64{models.TransactionApproved: 1, models.TransactionPending: 1}, stats.TransactionsByStatus)
	testutil.AssertAmount(t, "20", stats.Commission.Total)
	testutil.AssertAmount(t, "20", stats.Commission.ThisMonth)
}

func TestAccountMaintenance(t *testing.T) {
	app, db := setup(t)
	user := testutil.CreateUser(t, db, models.RoleStudent)
	other := testutil.CreateUser(t, db, models.RoleStudent)
	auth := testutil.Bearer(t, user)

	resp, env := do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/login", "", fiber.Map{
		"email": user.Email, "password": testutil.Password,
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	var tokens struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/logout", auth, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/refresh-token", "", fiber.Map{
		"refreshToken": tokens.RefreshToken,
	}))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/update-password", auth, fiber.Map{
		"oldPassword": "not-my-password", "newPassword": "brand-new-pass",
	}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/update-password", auth, fiber.Map{
		"oldPassword": testutil.Password, "newPassword": testutil.Password,
	}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/update-password", auth, fiber.Map{
		"oldPassword": testutil.Password, "newPassword": "brand-new-pass",
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/login", "", fiber.Map{
		"email": user.Email, "password": testutil.Password,
	}))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/login", "", fiber.Map{
		"email": user.Email, "password": "brand-new-pass",
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/update-account", auth, fiber.Map{
		"fullname": "Karim Ahmed", "email": other.Email,
	}))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/user/update-account", auth, fiber.Map{
		"fullname": "Karim Ahmed", "email": "karim@example.com",
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Karim Ahmed", stored.Fullname)
	assert.Equal(t, "karim@example.com", stored.Email)
}

func TestCourseCardsHideInstructorContact(t *testing.T) {
	app, db := setup(t)
	instructor := testutil.CreateUser(t, db, models.RoleInstructor)
	require.NoError(t, db.Model(&instructor).Update("phone_number", "01711111111").Error)
	testutil.CreateCourse(t, db, instructor, 0, "10")

	for _, url := range []string{"/api/v1/student/public-courses", "/api/v1/instructor/all-course"} {
		resp, env := do(t, app, jsonRequest(http.MethodGet, url, testutil.Bearer(t, instructor), nil))
		require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
		body := string(env.Data)
		assert.Contains(t, body, instructor.Fullname, url)
		assert.NotContains(t, body, instructor.Email, url)
		assert.NotContains(t, body, "01711111111", url)
	}
}

func TestListLimitIsCapped(t *testing.T) {
	app, db := setup(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	testutil.CreateBank(t, db, admin, "0")

	var page struct {
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
		} `json:"pagination"`
	}

	for _, url := range []string{
		"/api/v1/bank/transactions?limit=100000&page=0",
		"/api/v1/bank/ledger?limit=100000&page=0",
		"/api/v1/user/all-users?limit=100000&page=0",
		"/api/v1/student/public-courses?limit=100000&page=0",
	} {
		resp, env := do(t, app, jsonRequest(http.MethodGet, url, testutil.Bearer(t, admin), nil))
		require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
		require.NoError(t, json.Unmarshal(env.Data, &page), url)
		assert.Equal(t, 100, page.Pagination.Limit, url)
		assert.Equal(t, 1, page.Pagination.Page, url)
	}
}
