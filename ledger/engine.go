package ledger

import (
	"errors"
	"fmt"
	"strings"

	"greenfund/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Engine applies deposit/withdrawal requests and their admin-driven
// resolutions to balance rows. Every operation runs as one database
// transaction; business checks happen before any mutation, so a failed
// operation leaves no partial state. Notifications go out only after
// the transaction commits.
type Engine struct {
	db       *gorm.DB
	notifier Notifier
}

// NewEngine wires the engine to a database handle and a notifier.
// Pass NopNotifier{} to disable outbound messages.
func NewEngine(db *gorm.DB, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{db: db, notifier: notifier}
}

// storeErr maps a gorm error onto the ledger taxonomy.
func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func newReferenceID(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// CreateDeposit records a pending deposit for the user's current plan and
// parks the amount in pendingDepositBalance. An inactive user depositing
// at or above the plan threshold is activated in the same transaction;
// below the threshold the request is rejected untouched.
func (e *Engine) CreateDeposit(userID uint, amount float64, utr, transactionID string) (*models.Deposit, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidArgument)
	}

	var (
		deposit models.Deposit
		user    models.User
	)
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
			return storeErr(err)
		}

		var balance models.Balance
		if err := tx.Where("user_id = ? AND plan = ?", userID, user.Plan).First(&balance).Error; err != nil {
			return storeErr(err)
		}

		if !user.IsActive {
			if amount < MinDeposit(user.Plan) {
				return fmt.Errorf("%w: plan %s requires a deposit of at least %.2f to activate",
					ErrInsufficientAmount, user.Plan, MinDeposit(user.Plan))
			}
			if err := tx.Model(&user).Update("is_active", true).Error; err != nil {
				return storeErr(err)
			}
		}

		deposit = models.Deposit{
			UserID:        userID,
			Plan:          user.Plan,
			Amount:        amount,
			BalanceBefore: balance.Balance,
			Status:        models.DepositStatusPending,
			DepositID:     newReferenceID("DEP"),
			UTR:           utr,
			TransactionID: transactionID,
		}
		if err := tx.Create(&deposit).Error; err != nil {
			return storeErr(err)
		}

		if err := tx.Model(&models.Balance{}).Where("id = ?", balance.ID).
			Update("pending_deposit_balance", gorm.Expr("pending_deposit_balance + ?", amount)).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.notifier.DepositRequested(user.Email, user.Name, amount, deposit.DepositID)
	return &deposit, nil
}

// CreateWithdrawal debits the source field for the requested type, parks
// the amount in pendingWithdrawalBalance and records a pending withdrawal.
// A full withdrawal deactivates the account in the same transaction.
func (e *Engine) CreateWithdrawal(userID uint, wType models.WithdrawalType, customAmount float64) (*models.Withdrawal, error) {
	if !wType.IsValid() {
		return nil, fmt.Errorf("%w: unknown withdrawal type %q", ErrInvalidArgument, wType)
	}

	var (
		withdrawal models.Withdrawal
		user       models.User
	)
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
			return storeErr(err)
		}

		var balance models.Balance
		if err := tx.Where("user_id = ? AND plan = ?", userID, user.Plan).First(&balance).Error; err != nil {
			return storeErr(err)
		}

		var (
			amount    float64
			sourceCol string
			before    float64
		)
		switch wType {
		case models.WithdrawalTypeCustom:
			if customAmount <= 0 {
				return fmt.Errorf("%w: custom amount must be greater than zero", ErrInvalidArgument)
			}
			if customAmount < minCustomWithdrawal {
				return fmt.Errorf("%w: custom withdrawals start at %d", ErrBelowMinimum, minCustomWithdrawal)
			}
			if customAmount > balance.RewardBalance {
				return fmt.Errorf("%w: reward balance is %.2f", ErrInsufficientBalance, balance.RewardBalance)
			}
			amount, sourceCol, before = customAmount, "reward_balance", balance.RewardBalance
		case models.WithdrawalTypeRewardOnly:
			if balance.RewardBalance < MinWithdrawal(user.Plan) {
				return fmt.Errorf("%w: plan %s requires a reward balance of at least %.2f",
					ErrBelowMinimum, user.Plan, MinWithdrawal(user.Plan))
			}
			amount, sourceCol, before = balance.RewardBalance, "reward_balance", balance.RewardBalance
		case models.WithdrawalTypeFull:
			if balance.Balance < MinWithdrawal(user.Plan) {
				return fmt.Errorf("%w: plan %s requires a balance of at least %.2f",
					ErrBelowMinimum, user.Plan, MinWithdrawal(user.Plan))
			}
			amount, sourceCol, before = balance.Balance, "balance", balance.Balance
		}
		if amount <= 0 {
			return fmt.Errorf("%w: nothing to withdraw", ErrInsufficientBalance)
		}

		withdrawal = models.Withdrawal{
			UserID:        userID,
			Plan:          user.Plan,
			Type:          wType,
			Amount:        amount,
			BalanceBefore: before,
			Status:        models.WithdrawalStatusPending,
			WithdrawalID:  newReferenceID("WDL"),
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return storeErr(err)
		}

		// Guarded debit: a concurrent operation that drained the source
		// since the read above makes this a no-op instead of going negative.
		res := tx.Model(&models.Balance{}).
			Where("id = ? AND "+sourceCol+" >= ?", balance.ID, amount).
			Updates(map[string]interface{}{
				sourceCol:                    gorm.Expr(sourceCol+" - ?", amount),
				"pending_withdrawal_balance": gorm.Expr("pending_withdrawal_balance + ?", amount),
			})
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: funds no longer available", ErrInsufficientBalance)
		}

		if wType == models.WithdrawalTypeFull {
			if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
				return storeErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.notifier.WithdrawalRequested(user.Email, user.Name, withdrawal.Amount, wType)
	return &withdrawal, nil
}

// ResolveDeposit moves a pending deposit to its terminal state. Proceed
// lands the amount in the settled balance; failed only releases it from
// pendingDepositBalance. Resolving a terminal deposit fails with
// ErrAlreadyResolved so a repeated admin action can never double-credit.
func (e *Engine) ResolveDeposit(depositID string, status models.DepositStatus, remarks string) (*models.Deposit, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown deposit status %q", ErrInvalidArgument, status)
	}

	var (
		deposit models.Deposit
		user    models.User
	)
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deposit_id = ? AND is_deleted = false", depositID).First(&deposit).Error; err != nil {
			return storeErr(err)
		}
		if deposit.Status.Terminal() {
			return fmt.Errorf("%w: deposit %s is already %s", ErrAlreadyResolved, deposit.DepositID, deposit.Status)
		}
		if err := tx.Where("id = ?", deposit.UserID).First(&user).Error; err != nil {
			return storeErr(err)
		}

		if status == models.DepositStatusPending {
			// Remarks-only update, no balance movement.
			if err := tx.Model(&deposit).Update("remarks", remarks).Error; err != nil {
				return storeErr(err)
			}
			deposit.Remarks = remarks
			return nil
		}

		var balance models.Balance
		if err := tx.Where("user_id = ? AND plan = ?", deposit.UserID, deposit.Plan).First(&balance).Error; err != nil {
			return storeErr(err)
		}

		updates := map[string]interface{}{
			"pending_deposit_balance": gorm.Expr("pending_deposit_balance - ?", deposit.Amount),
		}
		if status == models.DepositStatusProceed {
			updates["balance"] = gorm.Expr("balance + ?", deposit.Amount)
		}
		res := tx.Model(&models.Balance{}).
			Where("id = ? AND pending_deposit_balance >= ?", balance.ID, deposit.Amount).
			Updates(updates)
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: pending deposit balance out of step for deposit %s", ErrInternal, deposit.DepositID)
		}

		if err := tx.Model(&deposit).Updates(map[string]interface{}{
			"status":  status,
			"remarks": remarks,
		}).Error; err != nil {
			return storeErr(err)
		}
		deposit.Status = status
		deposit.Remarks = remarks
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deposit.Status.Terminal() {
		e.notifier.DepositResolved(user.Email, user.Name, deposit.Amount, deposit.Status)
	}
	return &deposit, nil
}

// ResolveWithdrawal moves a pending withdrawal to its terminal state.
// Proceed releases the amount from pendingWithdrawalBalance; failed
// returns it to the field it was drawn from and, for full withdrawals,
// reactivates the account. Terminal rows fail with ErrAlreadyResolved.
func (e *Engine) ResolveWithdrawal(withdrawalID string, status models.WithdrawalStatus, transactionID, remarks string) (*models.Withdrawal, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown withdrawal status %q", ErrInvalidArgument, status)
	}
	if status == models.WithdrawalStatusProceed && transactionID == "" {
		return nil, fmt.Errorf("%w: transactionId is required to proceed a withdrawal", ErrInvalidArgument)
	}

	var (
		withdrawal models.Withdrawal
		user       models.User
	)
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("withdrawal_id = ? AND is_deleted = false", withdrawalID).First(&withdrawal).Error; err != nil {
			return storeErr(err)
		}
		if withdrawal.Status.Terminal() {
			return fmt.Errorf("%w: withdrawal %s is already %s", ErrAlreadyResolved, withdrawal.WithdrawalID, withdrawal.Status)
		}
		if err := tx.Where("id = ?", withdrawal.UserID).First(&user).Error; err != nil {
			return storeErr(err)
		}

		if status == models.WithdrawalStatusPending {
			if err := tx.Model(&withdrawal).Updates(map[string]interface{}{
				"transaction_id": transactionID,
				"remarks":        remarks,
			}).Error; err != nil {
				return storeErr(err)
			}
			withdrawal.TransactionID = transactionID
			withdrawal.Remarks = remarks
			return nil
		}

		var balance models.Balance
		if err := tx.Where("user_id = ? AND plan = ?", withdrawal.UserID, withdrawal.Plan).First(&balance).Error; err != nil {
			return storeErr(err)
		}

		updates := map[string]interface{}{
			"pending_withdrawal_balance": gorm.Expr("pending_withdrawal_balance - ?", withdrawal.Amount),
		}
		if status == models.WithdrawalStatusFailed {
			originCol := "reward_balance"
			if withdrawal.Type == models.WithdrawalTypeFull {
				originCol = "balance"
			}
			updates[originCol] = gorm.Expr(originCol+" + ?", withdrawal.Amount)
		}
		res := tx.Model(&models.Balance{}).
			Where("id = ? AND pending_withdrawal_balance >= ?", balance.ID, withdrawal.Amount).
			Updates(updates)
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: pending withdrawal balance out of step for withdrawal %s", ErrInternal, withdrawal.WithdrawalID)
		}

		if status == models.WithdrawalStatusFailed && withdrawal.Type == models.WithdrawalTypeFull {
			if err := tx.Model(&user).Update("is_active", true).Error; err != nil {
				return storeErr(err)
			}
		}

		if err := tx.Model(&withdrawal).Updates(map[string]interface{}{
			"status":         status,
			"transaction_id": transactionID,
			"remarks":        remarks,
		}).Error; err != nil {
			return storeErr(err)
		}
		withdrawal.Status = status
		withdrawal.TransactionID = transactionID
		withdrawal.Remarks = remarks
		return nil
	})
	if err != nil {
		return nil, err
	}

	if withdrawal.Status.Terminal() {
		e.notifier.WithdrawalResolved(user.Email, user.Name, withdrawal.Amount, withdrawal.Type, withdrawal.Status)
	}
	return &withdrawal, nil
}

// ListDeposits returns the user's deposits, newest first.
func (e *Engine) ListDeposits(userID uint) ([]models.Deposit, error) {
	var deposits []models.Deposit
	if err := e.db.Where("user_id = ? AND is_deleted = false", userID).
		Order("created_at DESC").Find(&deposits).Error; err != nil {
		return nil, storeErr(err)
	}
	return deposits, nil
}

// ListWithdrawals returns the user's withdrawals, newest first.
func (e *Engine) ListWithdrawals(userID uint) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := e.db.Where("user_id = ? AND is_deleted = false", userID).
		Order("created_at DESC").Find(&withdrawals).Error; err != nil {
		return nil, storeErr(err)
	}
	return withdrawals, nil
}

// Balance returns the user's balance row for their current plan.
func (e *Engine) Balance(userID uint) (*models.Balance, error) {
	var user models.User
	if err := e.db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return nil, storeErr(err)
	}
	var balance models.Balance
	if err := e.db.Where("user_id = ? AND plan = ?", userID, user.Plan).First(&balance).Error; err != nil {
		return nil, storeErr(err)
	}
	return &balance, nil
}
