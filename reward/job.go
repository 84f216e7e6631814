package reward

import (
	"errors"
	"fmt"
	"log"
	"time"

	"greenfund/models"

	"gorm.io/gorm"
)

// ErrAlreadyRun is returned when an accrual run for the date has already
// completed. It is the guard against double-crediting when the job is
// triggered manually on a day the scheduler already handled.
var ErrAlreadyRun = errors.New("reward accrual already ran for this date")

// Cooling-off period: users created within this window earn nothing yet.
const coolingOff = 72 * time.Hour

// Summary reports the outcome of one accrual run.
type Summary struct {
	RunDate   string `json:"runDate"`
	Succeeded int    `json:"succeeded"`
	Skipped   int    `json:"skipped"`
	Errored   int    `json:"errored"`
}

// Job credits daily rewards to eligible users. One run handles at most
// one calendar date (UTC); each user's credit is its own transaction, so
// a failure for one user never rolls back credits already applied.
type Job struct {
	db *gorm.DB
}

func NewJob(db *gorm.DB) *Job {
	return &Job{db: db}
}

func logJob(format string, args ...interface{}) {
	log.Printf("[REWARD-JOB] "+format, args...)
}

// Run performs the accrual for the calendar date of asOf (UTC). Weekends
// and configured non-reward days skip the whole run and return a zero
// summary without consuming the date.
func (j *Job) Run(asOf time.Time) (Summary, error) {
	day := asOf.UTC()
	date := day.Format("2006-01-02")
	summary := Summary{RunDate: date}

	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		logJob("skipping run for %s: weekend", date)
		return summary, nil
	}

	var nonRewardDay models.NonRewardDay
	err := j.db.Where("date = ?", date).First(&nonRewardDay).Error
	if err == nil {
		logJob("skipping run for %s: non-reward day (%s)", date, nonRewardDay.Reason)
		return summary, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return summary, fmt.Errorf("checking non-reward day: %w", err)
	}

	var prior models.RewardRunLog
	err = j.db.Where("run_date = ?", date).First(&prior).Error
	if err == nil {
		return summary, fmt.Errorf("%w: %s", ErrAlreadyRun, date)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return summary, fmt.Errorf("checking run log: %w", err)
	}

	var settings []models.RewardRateSetting
	if err := j.db.Find(&settings).Error; err != nil {
		return summary, fmt.Errorf("loading reward rates: %w", err)
	}
	rates := make(map[models.Plan]float64, len(settings))
	for _, s := range settings {
		rates[s.Plan] = s.Rate
	}

	cutoff := day.Add(-coolingOff)
	var users []models.User
	if err := j.db.Where("is_active = ? AND is_deleted = ? AND created_at <= ?", true, false, cutoff).
		Find(&users).Error; err != nil {
		return summary, fmt.Errorf("loading eligible users: %w", err)
	}

	for _, user := range users {
		switch err := j.creditUser(&user, rates); {
		case err == nil:
			summary.Succeeded++
		case errors.Is(err, errSkip):
			summary.Skipped++
		default:
			summary.Errored++
			logJob("error crediting user %d: %v", user.ID, err)
		}
	}

	runLog := models.RewardRunLog{
		RunDate:   date,
		Succeeded: summary.Succeeded,
		Skipped:   summary.Skipped,
		Errored:   summary.Errored,
	}
	if err := j.db.Create(&runLog).Error; err != nil {
		logJob("error recording run log for %s: %v", date, err)
	}

	logJob("run %s finished: %d succeeded, %d skipped, %d errored",
		date, summary.Succeeded, summary.Skipped, summary.Errored)
	return summary, nil
}

// errSkip marks a user that earns nothing this run without it being a failure.
var errSkip = errors.New("skipped")

func (j *Job) creditUser(user *models.User, rates map[models.Plan]float64) error {
	var balance models.Balance
	if err := j.db.Where("user_id = ? AND plan = ?", user.ID, user.Plan).First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no balance row for plan %s", errSkip, user.Plan)
		}
		return err
	}

	rate, ok := rates[user.Plan]
	if !ok {
		return fmt.Errorf("%w: no rate configured for plan %s", errSkip, user.Plan)
	}

	reward := balance.Balance * rate
	if reward <= 0 {
		return fmt.Errorf("%w: computed reward %.2f", errSkip, reward)
	}

	res := j.db.Model(&models.Balance{}).Where("id = ?", balance.ID).
		Update("reward_balance", gorm.Expr("reward_balance + ?", reward))
	if res.Error != nil {
		return res.Error
	}
	return nil
}
