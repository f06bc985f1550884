package walletController

import (
	"errors"
	"time"

	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	"elearn/repository"
	"elearn/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetWalletBalance returns the user's current balance
func GetWalletBalance(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	users := repository.NewUserRepository(database.Database.Db)
	user, err := users.GetByID(c.UserContext(), userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance fetched!", fiber.Map{
		"balance": user.Balance,
	})
}

// PurchaseCourse runs the atomic buy-course workflow
func PurchaseCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	purchases := service.NewPurchaseService(database.Database.Db)
	result, err := purchases.Purchase(c.UserContext(), userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course or user not found!", nil)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
		case errors.Is(err, service.ErrInsufficientFunds):
			return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "Insufficient balance to purchase this course!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete purchase!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course purchased successfully!", result)
}

// Deposit adds funds to the user's wallet and records a ledger row
func Deposit(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedDeposit").(*struct {
		Amount float64 `json:"amount"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	users := repository.NewUserRepository(database.Database.Db)
	balanceAfter, err := users.CreditBalance(c.UserContext(), userID, reqData.Amount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update balance!", nil)
	}

	transaction := models.WalletTransaction{
		UserID:          userID,
		Reference:       uuid.NewString(),
		TransactionType: models.TransactionTypeDeposit,
		Amount:          reqData.Amount,
		BalanceBefore:   balanceAfter - reqData.Amount,
		BalanceAfter:    balanceAfter,
		Status:          models.TransactionStatusCompleted,
		Description:     "Wallet deposit",
		TransactionDate: time.Now(),
	}
	if err := database.Database.Db.WithContext(c.UserContext()).Create(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit successful!", fiber.Map{
		"transactionId": transaction.ID,
		"reference":     transaction.Reference,
		"amount":        reqData.Amount,
		"balanceAfter":  balanceAfter,
	})
}

// GetWalletHistory returns the user's wallet transaction history
func GetWalletHistory(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	txnType := c.Query("type") // DEPOSIT, PURCHASE, REFUND, ADMIN_CREDIT

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	db := database.Database.Db
	query := db.WithContext(c.UserContext()).Model(&models.WalletTransaction{}).Where("user_id = ?", userID)
	if txnType != "" {
		query = query.Where("transaction_type = ?", txnType)
	}

	var total int64
	query.Count(&total)

	var transactions []models.WalletTransaction
	offset := (page - 1) * limit
	if err := query.
		Order("transaction_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AddBalance credits a user's wallet (admin only)
func AddBalance(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedAddBalance").(*struct {
		UserID uint    `json:"userId"`
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	users := repository.NewUserRepository(database.Database.Db)
	balanceAfter, err := users.CreditBalance(c.UserContext(), reqData.UserID, reqData.Amount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update balance!", nil)
	}

	transaction := models.WalletTransaction{
		UserID:          reqData.UserID,
		Reference:       uuid.NewString(),
		TransactionType: models.TransactionTypeAdminCredit,
		Amount:          reqData.Amount,
		BalanceBefore:   balanceAfter - reqData.Amount,
		BalanceAfter:    balanceAfter,
		Status:          models.TransactionStatusCompleted,
		Description:     "Admin credit",
		AdminID:         adminID,
		Reason:          reqData.Reason,
		TransactionDate: time.Now(),
	}
	if err := database.Database.Db.WithContext(c.UserContext()).Create(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance added successfully!", fiber.Map{
		"transactionId": transaction.ID,
		"userId":        reqData.UserID,
		"amount":        reqData.Amount,
		"balanceAfter":  balanceAfter,
	})
}
