package userController

import (
	"greenfund/audit"
	"greenfund/database"
	"greenfund/middleware"
	"greenfund/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetProfile returns the authenticated user's profile
func GetProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched!", fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"mobile":   user.Mobile,
		"plan":     user.Plan,
		"isActive": user.IsActive,
	})
}

// UpdatePlan switches the user's plan. A balance row for the new plan is
// created on first switch; old plan balances are kept untouched so funds
// are never lost in the move.
func UpdatePlan(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData := new(struct {
		Plan string `json:"plan"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	plan := models.Plan(reqData.Plan)
	if !plan.IsValid() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown plan!", nil)
	}
	if plan == user.Plan {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Plan unchanged.", fiber.Map{"plan": plan})
	}

	db := database.Database.Db
	err := db.Transaction(func(tx *gorm.DB) error {
		var balance models.Balance
		if err := tx.Where("user_id = ? AND plan = ?", userId, plan).
			Attrs(models.Balance{UserID: userId, Plan: plan}).
			FirstOrCreate(&balance).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("plan", plan).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update plan!", nil)
	}

	go audit.Log(db, userId, "user.updatePlan", map[string]interface{}{"plan": plan})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plan updated!", fiber.Map{"plan": plan})
}
