package transactionController

import (
	"errors"

	"greenfund/audit"
	"greenfund/database"
	"greenfund/ledger"
	"greenfund/middleware"
	"greenfund/models"
	"greenfund/utils"
	transactionValidator "greenfund/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func engine() *ledger.Engine {
	return ledger.NewEngine(database.Database.Db, utils.EmailNotifier{})
}

// ledgerError maps a ledger error kind to an HTTP response
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Record not found!", nil)
	case errors.Is(err, ledger.ErrInvalidArgument):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, ledger.ErrInsufficientAmount),
		errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrBelowMinimum):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, ledger.ErrAlreadyResolved):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Service temporarily unavailable, please retry!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
}

// GetBalance returns the user's balance row for their current plan
func GetBalance(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	balance, err := engine().Balance(userId)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance fetched!", balance)
}

// CreateDeposit records a pending deposit for the authenticated user
func CreateDeposit(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedDeposit").(*transactionValidator.DepositRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	deposit, err := engine().CreateDeposit(userId, reqData.Amount, reqData.UTR, reqData.TransactionID)
	if err != nil {
		return ledgerError(c, err)
	}

	go audit.Log(database.Database.Db, userId, "deposit.create", map[string]interface{}{
		"depositId": deposit.DepositID,
		"amount":    deposit.Amount,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit request submitted!", deposit)
}

// CreateWithdrawal records a pending withdrawal for the authenticated user
func CreateWithdrawal(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedWithdrawal").(*transactionValidator.WithdrawalRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	withdrawal, err := engine().CreateWithdrawal(userId, models.WithdrawalType(reqData.Type), reqData.CustomAmount)
	if err != nil {
		return ledgerError(c, err)
	}

	go audit.Log(database.Database.Db, userId, "withdrawal.create", map[string]interface{}{
		"withdrawalId": withdrawal.WithdrawalID,
		"type":         withdrawal.Type,
		"amount":       withdrawal.Amount,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal request submitted!", withdrawal)
}

// GetDeposits returns the user's deposit history
func GetDeposits(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	deposits, err := engine().ListDeposits(userId)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposits fetched!", deposits)
}

// GetWithdrawals returns the user's withdrawal history
func GetWithdrawals(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	withdrawals, err := engine().ListWithdrawals(userId)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawals fetched!", withdrawals)
}

// requireAdmin loads the caller and checks for an admin role
func requireAdmin(c *fiber.Ctx) (*models.User, error) {
	userId := c.Locals("userId").(uint)

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role IN ?", userId,
		[]string{"ADMIN", "SUPER-ADMIN"}).First(&admin).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}
	return &admin, nil
}

// ResolveDeposit lets an admin move a pending deposit to proceed/failed
func ResolveDeposit(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	reqData, ok := c.Locals("validatedResolveDeposit").(*transactionValidator.ResolveDepositRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	deposit, err := engine().ResolveDeposit(reqData.DepositID, models.DepositStatus(reqData.Status), reqData.Remarks)
	if err != nil {
		return ledgerError(c, err)
	}

	go audit.Log(database.Database.Db, admin.ID, "deposit.resolve", map[string]interface{}{
		"depositId": deposit.DepositID,
		"status":    deposit.Status,
		"amount":    deposit.Amount,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit resolved!", deposit)
}

// ResolveWithdrawal lets an admin move a pending withdrawal to proceed/failed
func ResolveWithdrawal(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	reqData, ok := c.Locals("validatedResolveWithdrawal").(*transactionValidator.ResolveWithdrawalRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	withdrawal, err := engine().ResolveWithdrawal(reqData.WithdrawalID,
		models.WithdrawalStatus(reqData.Status), reqData.TransactionID, reqData.Remarks)
	if err != nil {
		return ledgerError(c, err)
	}

	go audit.Log(database.Database.Db, admin.ID, "withdrawal.resolve", map[string]interface{}{
		"withdrawalId": withdrawal.WithdrawalID,
		"status":       withdrawal.Status,
		"amount":       withdrawal.Amount,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal resolved!", withdrawal)
}

// GetPendingDeposits returns all deposits awaiting resolution (admin)
func GetPendingDeposits(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	var deposits []models.Deposit
	if err := database.Database.Db.
		Where("status = ? AND is_deleted = false", models.DepositStatusPending).
		Order("created_at ASC").Find(&deposits).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch deposits!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending deposits fetched!", deposits)
}

// GetPendingWithdrawals returns all withdrawals awaiting resolution (admin)
func GetPendingWithdrawals(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	var withdrawals []models.Withdrawal
	if err := database.Database.Db.
		Where("status = ? AND is_deleted = false", models.WithdrawalStatusPending).
		Order("created_at ASC").Find(&withdrawals).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch withdrawals!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending withdrawals fetched!", withdrawals)
}
