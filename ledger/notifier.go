package ledger

import "greenfund/models"

// Notifier delivers user-facing messages after a ledger mutation commits.
// Implementations are best-effort: they must never block the caller on
// delivery and delivery failure is logged, not returned.
type Notifier interface {
	DepositRequested(email, name string, amount float64, depositID string)
	DepositResolved(email, name string, amount float64, status models.DepositStatus)
	WithdrawalRequested(email, name string, amount float64, wType models.WithdrawalType)
	WithdrawalResolved(email, name string, amount float64, wType models.WithdrawalType, status models.WithdrawalStatus)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) DepositRequested(string, string, float64, string) {}

func (NopNotifier) DepositResolved(string, string, float64, models.DepositStatus) {}

func (NopNotifier) WithdrawalRequested(string, string, float64, models.WithdrawalType) {}

func (NopNotifier) WithdrawalResolved(string, string, float64, models.WithdrawalType, models.WithdrawalStatus) {
}
