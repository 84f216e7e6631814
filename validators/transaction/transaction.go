package transactionValidator

import (
	"greenfund/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// DepositRequest is the user-facing deposit payload
type DepositRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	UTR           string  `json:"utr"`
	TransactionID string  `json:"transactionId"`
}

// WithdrawalRequest is the user-facing withdrawal payload
type WithdrawalRequest struct {
	Type         string  `json:"type" validate:"required"`
	CustomAmount float64 `json:"customAmount"`
}

// ResolveDepositRequest is the admin deposit resolution payload
type ResolveDepositRequest struct {
	DepositID string `json:"depositId" validate:"required"`
	Status    string `json:"status" validate:"required"`
	Remarks   string `json:"remarks"`
}

// ResolveWithdrawalRequest is the admin withdrawal resolution payload
type ResolveWithdrawalRequest struct {
	WithdrawalID  string `json:"withdrawalId" validate:"required"`
	Status        string `json:"status" validate:"required"`
	TransactionID string `json:"transactionId"`
	Remarks       string `json:"remarks"`
}

func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = "Failed validation: " + fe.Tag()
		}
	} else {
		errors["request"] = err.Error()
	}
	return errors
}

// CreateDeposit validates a deposit request body
func CreateDeposit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DepositRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedDeposit", reqData)
		return c.Next()
	}
}

// CreateWithdrawal validates a withdrawal request body
func CreateWithdrawal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(WithdrawalRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedWithdrawal", reqData)
		return c.Next()
	}
}

// ResolveDeposit validates an admin deposit resolution body
func ResolveDeposit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResolveDepositRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedResolveDeposit", reqData)
		return c.Next()
	}
}

// ResolveWithdrawal validates an admin withdrawal resolution body
func ResolveWithdrawal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResolveWithdrawalRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedResolveWithdrawal", reqData)
		return c.Next()
	}
}
