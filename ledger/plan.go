package ledger

import "greenfund/models"

// Minimum deposit required to activate an inactive account, per plan.
var minDepositByPlan = map[models.Plan]float64{
	models.PlanSeed:  10000,
	models.PlanPlant: 50000,
	models.PlanTree:  100000,
}

// Minimum balance required for full and rewardOnly withdrawals, per plan.
var minWithdrawalByPlan = map[models.Plan]float64{
	models.PlanSeed:  5000,
	models.PlanPlant: 10000,
	models.PlanTree:  15000,
}

// Floor for custom withdrawals regardless of plan.
const minCustomWithdrawal = 100

// MinDeposit returns the activation threshold for the plan.
func MinDeposit(plan models.Plan) float64 {
	return minDepositByPlan[plan]
}

// MinWithdrawal returns the plan minimum for full/rewardOnly withdrawals.
func MinWithdrawal(plan models.Plan) float64 {
	return minWithdrawalByPlan[plan]
}
