package bankController

import (
	"edulearn/config"
	"edulearn/database"
	"edulearn/logger"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/services/settlement"
	"edulearn/utils"
	bankValidator "edulearn/validators/bank"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Setup creates the caller's bank account with its opening balance
func Setup(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedBankSetup").(*bankValidator.SetupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("user_id = ?", userId).First(&models.Bank{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Bank account already exists!", nil)
	}

	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(reqData.SecretKey), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	bank := models.Bank{
		UserID:            userId,
		Provider:          reqData.Provider,
		AccountNumber:     reqData.AccountNumber,
		AccountHolderName: reqData.AccountHolderName,
		SecretKey:         string(hashedSecret),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bank).Error; err != nil {
			return err
		}
		if reqData.Balance.IsZero() {
			return nil
		}
		return settlement.Deposit(tx, &bank, reqData.Balance, models.EntryOpening, "Opening balance")
	})
	if err != nil {
		logger.Log.Error("creating bank", zap.Uint("userId", userId), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create bank account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Bank account created.", bank)
}

// AddBalance tops up the caller's wallet after checking account number and secret
func AddBalance(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedAddBalance").(*bankValidator.AddBalanceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var bank models.Bank
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		banks, err := settlement.LockBanks(tx, userId)
		if err != nil {
			return err
		}
		b, ok := banks[userId]
		if !ok {
			return settlement.ErrBankNotFound
		}
		if b.AccountNumber != reqData.AccountNumber {
			return fiber.NewError(fiber.StatusBadRequest, "Account number does not match!")
		}
		if bcrypt.CompareHashAndPassword([]byte(b.SecretKey), []byte(reqData.SecretKey)) != nil {
			return settlement.ErrInvalidSecret
		}
		if err := settlement.Deposit(tx, b, reqData.Balance, models.EntryTopUp, "Wallet top-up"); err != nil {
			return err
		}
		bank = *b
		return nil
	})
	if err != nil {
		return err
	}

	if user, ok := c.Locals("user").(models.User); ok {
		utils.SendWalletDepositEmail(user.Email, user.Fullname, reqData.Balance, bank.Balance)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance added successfully.", bank)
}

// Account returns the caller's bank account without its secret
func Account(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var bank models.Bank
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = false", userId).First(&bank).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Bank account not found!", nil)
		}
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bank account fetched.", bank)
}

// Transactions lists the enrollment payments visible to the caller's role
func Transactions(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	query := database.Database.Db.Model(&models.Transaction{})
	switch role {
	case models.RoleAdmin:
	case models.RoleInstructor:
		query = query.Where("instructor_id = ?", userId)
	default:
		query = query.Where("user_id = ?", userId)
	}

	return listTransactions(c, query)
}

// AllTransactions lists every enrollment payment (Admin only)
func AllTransactions(c *fiber.Ctx) error {
	return listTransactions(c, database.Database.Db.Model(&models.Transaction{}))
}

func listTransactions(c *fiber.Ctx, query *gorm.DB) error {
	page, limit, offset := middleware.Pagination(c)
	status := c.Query("status") // pending, approved, rejected

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched.", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// Ledger returns the caller's wallet entries
func Ledger(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page, limit, offset := middleware.Pagination(c)
	entryType := c.Query("type") // TOP_UP, ENROLLMENT_HOLD, etc.

	db := database.Database.Db

	var bank models.Bank
	if err := db.Where("user_id = ? AND is_deleted = false", userId).First(&bank).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Bank account not found!", nil)
	}

	query := db.Model(&models.WalletEntry{}).Where("user_id = ?", userId)
	if entryType != "" {
		query = query.Where("entry_type = ?", entryType)
	}

	var total int64
	query.Count(&total)

	var entries []models.WalletEntry
	if err := query.Order("entry_date DESC, id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history fetched.", fiber.Map{
		"entries":        entries,
		"currentBalance": bank.Balance,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// InstructorValidation approves or rejects a pending enrollment and settles its payment
func InstructorValidation(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedDecision").(*bankValidator.DecisionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	out, err := settlement.DecideEnrollment(database.Database.Db, userId, reqData.CourseID, reqData.StudentID, reqData.Status)
	if err != nil {
		return err
	}

	txn := out.Transaction
	if out.Enrollment.Status == models.EnrollmentApproved {
		utils.SendEnrollmentApprovedEmail(txn.UserEmail, txn.UserName, txn.CourseName)
	} else {
		utils.SendEnrollmentRejectedEmail(txn.UserEmail, txn.UserName, txn.CourseName, txn.TotalAmount, false)
	}

	logger.Log.Info("enrollment decided",
		zap.Uint("courseId", reqData.CourseID),
		zap.Uint("studentId", reqData.StudentID),
		zap.String("status", reqData.Status),
		zap.Uint("decidedBy", userId))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment "+out.Enrollment.Status+".", fiber.Map{
		"enrollment":  out.Enrollment,
		"transaction": txn,
	})
}
