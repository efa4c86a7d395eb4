package authController

import (
	"edulearn/config"
	"edulearn/database"
	"edulearn/logger"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/utils"
	"edulearn/utils/media"
	authValidator "edulearn/validators/auth"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLogins = 5
	loginBlockTime  = 15 * time.Minute
)

func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	role := reqData.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role == models.RoleAdmin {
		var admins int64
		db.Model(&models.User{}).Where("role = ? AND is_deleted = false", models.RoleAdmin).Count(&admins)
		if admins > 0 {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "An admin account already exists!", nil)
		}
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("hashing password", zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Avatar is required!", nil)
	}
	avatar, err := media.Default.Upload(c.UserContext(), avatarFile)
	if err != nil {
		logger.Log.Error("uploading avatar", zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to upload avatar!", nil)
	}

	newUser := models.User{
		Fullname:    reqData.Fullname,
		Email:       reqData.Email,
		PhoneNumber: reqData.PhoneNumber,
		Avatar:      avatar.URL,
		Role:        role,
		Password:    string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		logger.Log.Error("saving user", zap.String("email", newUser.Email), zap.Error(err))
		_ = media.Default.Destroy(c.UserContext(), avatar.URL)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.Fullname)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User does not exist!", nil)
	}

	now := time.Now()
	if user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		updates := map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts + 1,
			"last_failed_login":     now,
		}
		if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > loginBlockTime {
			updates["failed_login_attempts"] = 1
		}
		if updates["failed_login_attempts"].(int) >= maxFailedLogins {
			updates["blocked_until"] = now.Add(loginBlockTime)
			updates["failed_login_attempts"] = 0
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			logger.Log.Error("saving failed login", zap.Uint("userId", user.ID), zap.Error(err))
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid user credentials!", nil)
	}

	accessToken, refreshToken, err := issueTokens(c, &user)
	if err != nil {
		logger.Log.Error("issuing tokens", zap.Uint("userId", user.ID), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	logger.Log.Info("user logged in", zap.Uint("userId", user.ID), zap.String("ip", c.IP()))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User logged in successfully.", fiber.Map{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func Logout(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	if err := database.Database.Db.Model(&models.User{}).Where("id = ?", userId).Update("refresh_token", "").Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to logout!", nil)
	}

	c.ClearCookie(middleware.AccessTokenCookie, middleware.RefreshTokenCookie)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User logged out.", nil)
}

func RefreshToken(c *fiber.Ctx) error {
	incoming := c.Cookies(middleware.RefreshTokenCookie)
	if incoming == "" {
		body := new(struct {
			RefreshToken string `json:"refreshToken"`
		})
		_ = c.BodyParser(body)
		incoming = body.RefreshToken
	}
	if incoming == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized request!", nil)
	}

	userId, err := middleware.ParseRefreshToken(incoming)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid refresh token!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid refresh token!", nil)
	}
	if user.RefreshToken == "" || user.RefreshToken != incoming {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Refresh token is expired or used!", nil)
	}

	accessToken, refreshToken, err := issueTokens(c, &user)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access token refreshed.", fiber.Map{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// issueTokens signs a new token pair, stores the refresh token and sets both cookies.
func issueTokens(c *fiber.Ctx, user *models.User) (string, string, error) {
	accessToken, err := middleware.GenerateAccessToken(*user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := middleware.GenerateRefreshToken(*user)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	if err := database.Database.Db.Model(user).Updates(map[string]interface{}{
		"refresh_token":         refreshToken,
		"last_login":            now,
		"failed_login_attempts": 0,
		"blocked_until":         nil,
	}).Error; err != nil {
		return "", "", err
	}
	user.RefreshToken = refreshToken
	user.LastLogin = &now

	cfg := config.AppConfig
	sameSite := fiber.CookieSameSiteLaxMode
	if cfg.CookieSecure {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Expires:  now.Add(cfg.AccessTokenExpiry),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: sameSite,
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    refreshToken,
		Expires:  now.Add(cfg.RefreshTokenExpiry),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: sameSite,
	})

	return accessToken, refreshToken, nil
}

func UpdatePassword(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedUpdatePassword").(*authValidator.UpdatePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.OldPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid old password!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully.", nil)
}

func UpdateAccount(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedUpdateAccount").(*authValidator.UpdateAccountRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("email = ? AND id <> ?", reqData.Email, userId).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"fullname": reqData.Fullname,
		"email":    reqData.Email,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account details updated.", user)
}

func ChangeProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Avatar is required!", nil)
	}
	avatar, err := media.Default.Upload(c.UserContext(), file)
	if err != nil {
		logger.Log.Error("uploading avatar", zap.Uint("userId", userId), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to upload avatar!", nil)
	}

	oldAvatar := user.Avatar
	if err := db.Model(&user).Update("avatar", avatar.URL).Error; err != nil {
		_ = media.Default.Destroy(c.UserContext(), avatar.URL)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update avatar!", nil)
	}

	if oldAvatar != "" {
		if err := media.Default.Destroy(c.UserContext(), oldAvatar); err != nil {
			logger.Log.Warn("removing old avatar", zap.String("url", oldAvatar), zap.Error(err))
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Avatar updated.", user)
}

func Me(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Current user fetched.", user)
}

// AllUsers lists users for the admin, optionally filtered by role
func AllUsers(c *fiber.Ctx) error {
	page, limit, offset := middleware.Pagination(c)
	role := c.Query("role")

	query := database.Database.Db.Model(&models.User{}).Where("is_deleted = false")
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
