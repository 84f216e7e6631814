package reward

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

// Tuesday and Saturday on the same week, fixed so weekday gating is stable.
var (
	tuesday  = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	saturday = time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Balance{},
		&models.RewardRateSetting{},
		&models.NonRewardDay{},
		&models.RewardRunLog{},
	))
	return db
}

func seedRate(t *testing.T, db *gorm.DB, plan models.Plan, rate float64) {
	t.Helper()
	require.NoError(t, db.Create(&models.RewardRateSetting{Plan: plan, Rate: rate}).Error)
}

func seedActiveUser(t *testing.T, db *gorm.DB, plan models.Plan, createdAt time.Time, balance float64) models.User {
	t.Helper()

	user := models.User{
		Name:     "Reward User",
		Email:    fmt.Sprintf("%s-%d@example.com", strings.ToLower(strings.ReplaceAll(t.Name(), "/", ".")), time.Now().UnixNano()),
		Password: "hashed",
		Plan:     plan,
		IsActive: true,
	}
	user.CreatedAt = createdAt
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, db.Create(&models.Balance{UserID: user.ID, Plan: plan, Balance: balance}).Error)
	return user
}

func rewardBalance(t *testing.T, db *gorm.DB, userID uint, plan models.Plan) float64 {
	t.Helper()

	var balance models.Balance
	require.NoError(t, db.Where("user_id = ? AND plan = ?", userID, plan).First(&balance).Error)
	return balance.RewardBalance
}

func TestRunCreditsEligibleUser(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.01)
	user := seedActiveUser(t, db, models.PlanSeed, tuesday.AddDate(0, 0, -10), 1000)

	summary, err := NewJob(db).Run(tuesday)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Errored)
	assert.InDelta(t, 10.0, rewardBalance(t, db, user.ID, models.PlanSeed), 1e-9)
}

func TestRunSkipsWeekend(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.01)
	user := seedActiveUser(t, db, models.PlanSeed, saturday.AddDate(0, 0, -10), 1000)

	summary, err := NewJob(db).Run(saturday)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 0.0, rewardBalance(t, db, user.ID, models.PlanSeed))

	// A skipped run does not consume the date
	var count int64
	db.Model(&models.RewardRunLog{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRunSkipsNonRewardDay(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.01)
	user := seedActiveUser(t, db, models.PlanSeed, tuesday.AddDate(0, 0, -10), 1000)
	require.NoError(t, db.Create(&models.NonRewardDay{Date: tuesday.Format("2006-01-02"), Reason: "bank holiday"}).Error)

	summary, err := NewJob(db).Run(tuesday)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 0.0, rewardBalance(t, db, user.ID, models.PlanSeed))
}

func TestRunRefusesSameDateTwice(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.01)
	user := seedActiveUser(t, db, models.PlanSeed, tuesday.AddDate(0, 0, -10), 1000)

	job := NewJob(db)

	_, err := job.Run(tuesday)
	require.NoError(t, err)

	_, err = job.Run(tuesday)
	assert.ErrorIs(t, err, ErrAlreadyRun)

	// Credited exactly once
	assert.InDelta(t, 10.0, rewardBalance(t, db, user.ID, models.PlanSeed), 1e-9)
}

func TestRunExcludesUsersInCoolingOff(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.01)
	user := seedActiveUser(t, db, models.PlanSeed, tuesday.Add(-48*time.Hour), 1000)

	summary, err := NewJob(db).Run(tuesday)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0.0, rewardBalance(t, db, user.ID, models.PlanSeed))
}

func TestRunExcludesInactiveUsers(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.01)
	user := seedActiveUser(t, db, models.PlanSeed, tuesday.AddDate(0, 0, -10), 1000)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	summary, err := NewJob(db).Run(tuesday)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 0.0, rewardBalance(t, db, user.ID, models.PlanSeed))
}

func TestRunSkipsUserWithoutBalanceRow(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.01)

	user := models.User{
		Name:     "No Balance",
		Email:    "no-balance@example.com",
		Password: "hashed",
		Plan:     models.PlanSeed,
		IsActive: true,
	}
	user.CreatedAt = tuesday.AddDate(0, 0, -10)
	require.NoError(t, db.Create(&user).Error)

	summary, err := NewJob(db).Run(tuesday)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
}

func TestRunSkipsPlanWithoutRate(t *testing.T) {
	db := newTestDB(t)
	// only the tree plan has a rate configured
	seedRate(t, db, models.PlanTree, 0.01)
	user := seedActiveUser(t, db, models.PlanSeed, tuesday.AddDate(0, 0, -10), 1000)

	summary, err := NewJob(db).Run(tuesday)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0.0, rewardBalance(t, db, user.ID, models.PlanSeed))
}

func TestRunSkipsZeroBalance(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.01)
	user := seedActiveUser(t, db, models.PlanSeed, tuesday.AddDate(0, 0, -10), 0)

	summary, err := NewJob(db).Run(tuesday)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0.0, rewardBalance(t, db, user.ID, models.PlanSeed))
}

func TestRunRecordsRunLog(t *testing.T) {
	db := newTestDB(t)
	seedRate(t, db, models.PlanSeed, 0.02)
	seedActiveUser(t, db, models.PlanSeed, tuesday.AddDate(0, 0, -10), 2500)
	seedActiveUser(t, db, models.PlanSeed, tuesday.AddDate(0, 0, -10), 0)

	summary, err := NewJob(db).Run(tuesday)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)

	var runLog models.RewardRunLog
	require.NoError(t, db.Where("run_date = ?", tuesday.Format("2006-01-02")).First(&runLog).Error)
	assert.Equal(t, 1, runLog.Succeeded)
	assert.Equal(t, 1, runLog.Skipped)
	assert.Equal(t, 0, runLog.Errored)
}
