package report

import "shop-ledger/internal/pkg/money"

// Summary aggregates the full record set. Totals are folded with
// money.Add so the result is exact at cent resolution and independent
// of record order.
type Summary struct {
	TotalSales   money.Money `json:"totalSales"`
	TotalPaid    money.Money `json:"totalPaid"`
	TotalPending money.Money `json:"totalPending"`
}
