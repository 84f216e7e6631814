package ledger

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"greenfund/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Balance{},
		&models.Deposit{},
		&models.Withdrawal{},
	))
	return db
}

type stubNotifier struct {
	events []string
}

func (s *stubNotifier) DepositRequested(string, string, float64, string) {
	s.events = append(s.events, "deposit.requested")
}

func (s *stubNotifier) DepositResolved(string, string, float64, models.DepositStatus) {
	s.events = append(s.events, "deposit.resolved")
}

func (s *stubNotifier) WithdrawalRequested(string, string, float64, models.WithdrawalType) {
	s.events = append(s.events, "withdrawal.requested")
}

func (s *stubNotifier) WithdrawalResolved(string, string, float64, models.WithdrawalType, models.WithdrawalStatus) {
	s.events = append(s.events, "withdrawal.resolved")
}

func seedUser(t *testing.T, db *gorm.DB, plan models.Plan, active bool, balance models.Balance) models.User {
	t.Helper()

	user := models.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("%s@example.com", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "."))),
		Password: "hashed",
		Plan:     plan,
		IsActive: active,
	}
	user.CreatedAt = time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, db.Create(&user).Error)

	balance.UserID = user.ID
	balance.Plan = plan
	require.NoError(t, db.Create(&balance).Error)

	return user
}

func getBalance(t *testing.T, db *gorm.DB, userID uint, plan models.Plan) models.Balance {
	t.Helper()

	var balance models.Balance
	require.NoError(t, db.Where("user_id = ? AND plan = ?", userID, plan).First(&balance).Error)
	return balance
}

func getUser(t *testing.T, db *gorm.DB, userID uint) models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user
}

func TestCreateDepositParksAmountInPending(t *testing.T) {
	db := newTestDB(t)
	notifier := &stubNotifier{}
	engine := NewEngine(db, notifier)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{Balance: 5000, RewardBalance: 250})

	deposit, err := engine.CreateDeposit(user.ID, 2000, "UTR123", "")
	require.NoError(t, err)

	assert.Equal(t, models.DepositStatusPending, deposit.Status)
	assert.Equal(t, 5000.0, deposit.BalanceBefore)
	assert.True(t, strings.HasPrefix(deposit.DepositID, "DEP-"))

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 5000.0, balance.Balance)
	assert.Equal(t, 2000.0, balance.PendingDepositBalance)
	assert.Equal(t, 0.0, balance.PendingWithdrawalBalance)
	assert.Equal(t, 250.0, balance.RewardBalance)

	assert.Equal(t, []string{"deposit.requested"}, notifier.events)
}

func TestCreateDepositRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{})

	_, err := engine.CreateDeposit(user.ID, 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = engine.CreateDeposit(user.ID, -50, "", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateDepositUnknownUser(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	_, err := engine.CreateDeposit(9999, 1000, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDepositInactiveBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, false, models.Balance{})

	_, err := engine.CreateDeposit(user.ID, 9999, "", "")
	assert.ErrorIs(t, err, ErrInsufficientAmount)

	// Nothing mutated
	assert.False(t, getUser(t, db, user.ID).IsActive)
	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 0.0, balance.PendingDepositBalance)

	var count int64
	db.Model(&models.Deposit{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateDepositActivatesInactiveUserAtThreshold(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, false, models.Balance{})

	deposit, err := engine.CreateDeposit(user.ID, 12000, "", "")
	require.NoError(t, err)

	assert.Equal(t, models.DepositStatusPending, deposit.Status)
	assert.True(t, getUser(t, db, user.ID).IsActive)
	assert.Equal(t, 12000.0, getBalance(t, db, user.ID, models.PlanSeed).PendingDepositBalance)
}

func TestResolveDepositProceedCreditsSettledBalance(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, false, models.Balance{})
	deposit, err := engine.CreateDeposit(user.ID, 12000, "", "")
	require.NoError(t, err)

	resolved, err := engine.ResolveDeposit(deposit.DepositID, models.DepositStatusProceed, "verified")
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusProceed, resolved.Status)
	assert.Equal(t, "verified", resolved.Remarks)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 12000.0, balance.Balance)
	assert.Equal(t, 0.0, balance.PendingDepositBalance)
}

func TestResolveDepositFailedOnlyReleasesPending(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{Balance: 500})
	deposit, err := engine.CreateDeposit(user.ID, 3000, "", "")
	require.NoError(t, err)

	_, err = engine.ResolveDeposit(deposit.DepositID, models.DepositStatusFailed, "utr mismatch")
	require.NoError(t, err)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 500.0, balance.Balance)
	assert.Equal(t, 0.0, balance.PendingDepositBalance)
}

func TestResolveDepositTwiceDoesNotDoubleCredit(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{})
	deposit, err := engine.CreateDeposit(user.ID, 3000, "", "")
	require.NoError(t, err)

	_, err = engine.ResolveDeposit(deposit.DepositID, models.DepositStatusProceed, "")
	require.NoError(t, err)

	_, err = engine.ResolveDeposit(deposit.DepositID, models.DepositStatusProceed, "")
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 3000.0, balance.Balance)
	assert.Equal(t, 0.0, balance.PendingDepositBalance)
}

func TestResolveDepositRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	_, err := engine.ResolveDeposit("DEP-ABC", "approved", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateWithdrawalRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{Balance: 10000})

	_, err := engine.CreateWithdrawal(user.ID, "partial", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateWithdrawalRewardOnlyBelowPlanMinimum(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	// seed plan minimum is 5000
	user := seedUser(t, db, models.PlanSeed, true, models.Balance{RewardBalance: 4000})

	_, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeRewardOnly, 0)
	assert.ErrorIs(t, err, ErrBelowMinimum)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 4000.0, balance.RewardBalance)
	assert.Equal(t, 0.0, balance.PendingWithdrawalBalance)
}

func TestCreateWithdrawalRewardOnlyDrainsRewards(t *testing.T) {
	db := newTestDB(t)
	notifier := &stubNotifier{}
	engine := NewEngine(db, notifier)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{Balance: 20000, RewardBalance: 6000})

	withdrawal, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeRewardOnly, 0)
	require.NoError(t, err)

	assert.Equal(t, 6000.0, withdrawal.Amount)
	assert.Equal(t, 6000.0, withdrawal.BalanceBefore)
	assert.True(t, strings.HasPrefix(withdrawal.WithdrawalID, "WDL-"))

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 0.0, balance.RewardBalance)
	assert.Equal(t, 6000.0, balance.PendingWithdrawalBalance)
	assert.Equal(t, 20000.0, balance.Balance)

	assert.Equal(t, []string{"withdrawal.requested"}, notifier.events)
}

func TestCreateWithdrawalCustomBelowFloor(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{RewardBalance: 6000})

	_, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeCustom, 50)
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestCreateWithdrawalCustomExceedsRewards(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{RewardBalance: 500})

	_, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeCustom, 900)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestCreateWithdrawalCustomDebitsRewards(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{Balance: 15000, RewardBalance: 900})

	withdrawal, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeCustom, 600)
	require.NoError(t, err)

	assert.Equal(t, 600.0, withdrawal.Amount)
	assert.Equal(t, 900.0, withdrawal.BalanceBefore)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 300.0, balance.RewardBalance)
	assert.Equal(t, 600.0, balance.PendingWithdrawalBalance)
	assert.Equal(t, 15000.0, balance.Balance)
}

func TestCreateWithdrawalFullDeactivatesUser(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{Balance: 20000})

	withdrawal, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeFull, 0)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, withdrawal.Amount)

	assert.False(t, getUser(t, db, user.ID).IsActive)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 0.0, balance.Balance)
	assert.Equal(t, 20000.0, balance.PendingWithdrawalBalance)
}

func TestCreateWithdrawalFullBelowPlanMinimum(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanTree, true, models.Balance{Balance: 14000})

	_, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeFull, 0)
	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.True(t, getUser(t, db, user.ID).IsActive)
}

func TestResolveWithdrawalProceedRequiresTransactionID(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	_, err := engine.ResolveWithdrawal("WDL-ABC", models.WithdrawalStatusProceed, "", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolveWithdrawalProceedReleasesPendingOnly(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{Balance: 20000, RewardBalance: 6000})
	withdrawal, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeRewardOnly, 0)
	require.NoError(t, err)

	resolved, err := engine.ResolveWithdrawal(withdrawal.WithdrawalID, models.WithdrawalStatusProceed, "TXN-1", "paid")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusProceed, resolved.Status)
	assert.Equal(t, "TXN-1", resolved.TransactionID)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 0.0, balance.PendingWithdrawalBalance)
	assert.Equal(t, 0.0, balance.RewardBalance)
	assert.Equal(t, 20000.0, balance.Balance)
}

func TestResolveWithdrawalFailedReturnsRewardFunds(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{RewardBalance: 6000})
	withdrawal, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeRewardOnly, 0)
	require.NoError(t, err)

	_, err = engine.ResolveWithdrawal(withdrawal.WithdrawalID, models.WithdrawalStatusFailed, "", "bank rejected")
	require.NoError(t, err)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 6000.0, balance.RewardBalance)
	assert.Equal(t, 0.0, balance.PendingWithdrawalBalance)
}

func TestResolveWithdrawalFailedFullReactivatesUser(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{Balance: 20000})
	withdrawal, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeFull, 0)
	require.NoError(t, err)
	require.False(t, getUser(t, db, user.ID).IsActive)

	_, err = engine.ResolveWithdrawal(withdrawal.WithdrawalID, models.WithdrawalStatusFailed, "", "account frozen")
	require.NoError(t, err)

	assert.True(t, getUser(t, db, user.ID).IsActive)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 20000.0, balance.Balance)
	assert.Equal(t, 0.0, balance.PendingWithdrawalBalance)
}

func TestResolveWithdrawalTwiceDoesNotDoubleApply(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{RewardBalance: 6000})
	withdrawal, err := engine.CreateWithdrawal(user.ID, models.WithdrawalTypeRewardOnly, 0)
	require.NoError(t, err)

	_, err = engine.ResolveWithdrawal(withdrawal.WithdrawalID, models.WithdrawalStatusFailed, "", "")
	require.NoError(t, err)

	_, err = engine.ResolveWithdrawal(withdrawal.WithdrawalID, models.WithdrawalStatusFailed, "", "")
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	balance := getBalance(t, db, user.ID, models.PlanSeed)
	assert.Equal(t, 6000.0, balance.RewardBalance)
	assert.Equal(t, 0.0, balance.PendingWithdrawalBalance)
}

func TestListDepositsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, models.PlanSeed, true, models.Balance{})

	_, err := engine.CreateDeposit(user.ID, 1000, "", "")
	require.NoError(t, err)
	_, err = engine.CreateDeposit(user.ID, 2000, "", "")
	require.NoError(t, err)

	deposits, err := engine.ListDeposits(user.ID)
	require.NoError(t, err)
	require.Len(t, deposits, 2)
}
