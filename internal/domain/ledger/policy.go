package ledger

import "shop-ledger/internal/pkg/money"

// DefaultReminderThreshold is the balance above which a customer gets a
// payment reminder.
var DefaultReminderThreshold = money.FromFloat(100)

// ReminderDue reports whether moving the balance from prev to next
// crosses the threshold. Only an upward crossing counts: a balance
// already above the threshold never re-triggers until it has dropped
// back to the threshold or below.
func ReminderDue(prev, next, threshold money.Money) bool {
	return prev.LessThanOrEqual(threshold) && next.GreaterThan(threshold)
}
