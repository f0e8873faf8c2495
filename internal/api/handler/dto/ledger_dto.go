package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"shop-ledger/internal/domain/ledger"
	"shop-ledger/internal/domain/report"
	"shop-ledger/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest carries amounts as decimal strings so a malformed
// number is rejected here instead of silently coercing to zero.
type RecordSaleRequest struct {
	Qty         string `json:"qty"`
	Rate        string `json:"rate"`
	PaymentType string `json:"paymentType"`
	PaidAmount  string `json:"paidAmount,omitempty"`
}

func (r *RecordSaleRequest) Validate() error {
	if err := validateAmountField("qty", r.Qty, true); err != nil {
		return err
	}
	if err := validateAmountField("rate", r.Rate, true); err != nil {
		return err
	}

	switch ledger.PaymentType(strings.ToUpper(r.PaymentType)) {
	case ledger.PaymentTypeFull, ledger.PaymentTypePartial, ledger.PaymentTypeCredit:
	default:
		return fmt.Errorf("paymentType must be one of FULL, PARTIAL, CREDIT")
	}

	if r.PaidAmount != "" {
		if err := validateAmountField("paidAmount", r.PaidAmount, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecordSaleRequest) QtyMoney() money.Money {
	m, _ := money.FromString(r.Qty)
	return m
}

func (r *RecordSaleRequest) RateMoney() money.Money {
	m, _ := money.FromString(r.Rate)
	return m
}

func (r *RecordSaleRequest) PaidMoney() money.Money {
	m, _ := money.FromString(r.PaidAmount)
	return m
}

func (r *RecordSaleRequest) Type() ledger.PaymentType {
	return ledger.PaymentType(strings.ToUpper(r.PaymentType))
}

type RecordPaymentRequest struct {
	Amount string `json:"amount"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.Amount == "" {
		return fmt.Errorf("amount cannot be empty")
	}
	d, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return fmt.Errorf("invalid payment amount: %w", err)
	}
	if !d.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

func (r *RecordPaymentRequest) AmountMoney() money.Money {
	m, _ := money.FromString(r.Amount)
	return m
}

func validateAmountField(field, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if d.IsNegative() {
		return fmt.Errorf("%s cannot be negative", field)
	}
	return nil
}

type SaleResponse struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId"`
	Qty         string    `json:"qty"`
	Rate        string    `json:"rate"`
	Total       string    `json:"total"`
	Paid        string    `json:"paid"`
	Credit      string    `json:"credit"`
	PaymentType string    `json:"paymentType"`
	Date        time.Time `json:"date"`
}

func NewSaleResponse(sale *ledger.Sale) SaleResponse {
	if sale == nil {
		return SaleResponse{}
	}
	return SaleResponse{
		ID:          strconv.FormatInt(sale.ID, 10),
		CustomerID:  strconv.FormatInt(sale.CustomerID, 10),
		Qty:         sale.Qty.Format(),
		Rate:        sale.Rate.Format(),
		Total:       sale.Total.Format(),
		Paid:        sale.Paid.Format(),
		Credit:      sale.Credit.Format(),
		PaymentType: string(sale.PaymentType),
		Date:        sale.Date,
	}
}

type PaymentResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Amount     string    `json:"amount"`
	Date       time.Time `json:"date"`
}

func NewPaymentResponse(payment *ledger.Payment) PaymentResponse {
	if payment == nil {
		return PaymentResponse{}
	}
	return PaymentResponse{
		ID:         strconv.FormatInt(payment.ID, 10),
		CustomerID: strconv.FormatInt(payment.CustomerID, 10),
		Amount:     payment.Amount.Format(),
		Date:       payment.Date,
	}
}

type ReminderResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Amount     string    `json:"amount"`
	Sent       bool      `json:"sent"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewReminderResponse(reminder *ledger.Reminder) ReminderResponse {
	if reminder == nil {
		return ReminderResponse{}
	}
	return ReminderResponse{
		ID:         strconv.FormatInt(reminder.ID, 10),
		CustomerID: strconv.FormatInt(reminder.CustomerID, 10),
		Amount:     reminder.Amount.Format(),
		Sent:       reminder.Sent,
		CreatedAt:  reminder.CreatedAt,
	}
}

type SummaryResponse struct {
	TotalSales   string `json:"totalSales"`
	TotalPaid    string `json:"totalPaid"`
	TotalPending string `json:"totalPending"`
}

func NewSummaryResponse(summary *report.Summary) SummaryResponse {
	if summary == nil {
		return SummaryResponse{}
	}
	return SummaryResponse{
		TotalSales:   summary.TotalSales.Format(),
		TotalPaid:    summary.TotalPaid.Format(),
		TotalPending: summary.TotalPending.Format(),
	}
}
