package adminController

import (
	"errors"
	"time"

	"greenfund/audit"
	"greenfund/database"
	"greenfund/middleware"
	"greenfund/models"
	"greenfund/reward"

	"github.com/gofiber/fiber/v2"
)

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

// UpsertRewardRate creates or updates the daily reward rate for a plan
func UpsertRewardRate(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	reqData := new(struct {
		Plan string  `json:"plan"`
		Rate float64 `json:"rate"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	plan := models.Plan(reqData.Plan)
	if !plan.IsValid() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown plan!", nil)
	}
	if reqData.Rate < 0 || reqData.Rate > 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rate must be a fraction between 0 and 1!", nil)
	}

	db := database.Database.Db

	var setting models.RewardRateSetting
	if err := db.Where("plan = ?", plan).
		Assign(models.RewardRateSetting{Plan: plan, Rate: reqData.Rate, UpdatedBy: admin.ID}).
		FirstOrCreate(&setting).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save reward rate!", nil)
	}

	go audit.Log(db, admin.ID, "rewardRate.upsert", map[string]interface{}{
		"plan": plan,
		"rate": reqData.Rate,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reward rate saved!", setting)
}

// ListRewardRates returns the configured per-plan reward rates
func ListRewardRates(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	var settings []models.RewardRateSetting
	if err := database.Database.Db.Order("plan ASC").Find(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reward rates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reward rates fetched!", settings)
}

// AddNonRewardDay blocks accrual for one calendar date
func AddNonRewardDay(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	reqData := new(struct {
		Date   string `json:"date"` // YYYY-MM-DD
		Reason string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if _, err := time.Parse("2006-01-02", reqData.Date); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Date must be YYYY-MM-DD!", nil)
	}

	db := database.Database.Db

	if err := db.Where("date = ?", reqData.Date).First(&models.NonRewardDay{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Date is already a non-reward day!", nil)
	}

	day := models.NonRewardDay{Date: reqData.Date, Reason: reqData.Reason, CreatedBy: admin.ID}
	if err := db.Create(&day).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save non-reward day!", nil)
	}

	go audit.Log(db, admin.ID, "nonRewardDay.add", map[string]interface{}{
		"date":   day.Date,
		"reason": day.Reason,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Non-reward day added!", day)
}

// DeleteNonRewardDay removes the accrual block for a date
func DeleteNonRewardDay(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	date := c.Query("date")
	if date == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "date is required!", nil)
	}

	db := database.Database.Db

	res := db.Where("date = ?", date).Delete(&models.NonRewardDay{})
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete non-reward day!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Non-reward day not found!", nil)
	}

	go audit.Log(db, admin.ID, "nonRewardDay.delete", map[string]interface{}{"date": date})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Non-reward day removed!", nil)
}

// ListNonRewardDays returns all configured non-reward days
func ListNonRewardDays(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	var days []models.NonRewardDay
	if err := database.Database.Db.Order("date ASC").Find(&days).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch non-reward days!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Non-reward days fetched!", days)
}

// TriggerRewardRun runs the accrual job manually, optionally for a given
// date (operational replay). A date the job already handled is refused.
func TriggerRewardRun(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	asOf := time.Now().UTC()
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Date must be YYYY-MM-DD!", nil)
		}
		asOf = parsed
	}

	job := reward.NewJob(database.Database.Db)
	summary, err := job.Run(asOf)
	if err != nil {
		if errors.Is(err, reward.ErrAlreadyRun) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Reward accrual already ran for this date!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Reward accrual failed!", nil)
	}

	go audit.Log(database.Database.Db, admin.ID, "rewardRun.trigger", map[string]interface{}{
		"runDate":   summary.RunDate,
		"succeeded": summary.Succeeded,
		"skipped":   summary.Skipped,
		"errored":   summary.Errored,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reward accrual finished!", summary)
}

// ListRewardRuns returns past accrual run summaries
func ListRewardRuns(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if admin == nil {
		return err
	}

	var runs []models.RewardRunLog
	if err := database.Database.Db.Order("run_date DESC").Limit(90).Find(&runs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reward runs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reward runs fetched!", runs)
}
