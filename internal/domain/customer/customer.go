package customer

import (
	"strings"
	"time"
	"unicode"

	"shop-ledger/internal/pkg/money"
)

type Customer struct {
	CustomerID int64       `json:"customerId"`
	Name       string      `json:"name"`
	Mobile     string      `json:"mobile"`
	Pending    money.Money `json:"pending"`
	CreateDate time.Time   `json:"createDate"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

func NewCustomer(name, mobile string) *Customer {
	now := time.Now()
	return &Customer{
		Name:       strings.TrimSpace(name),
		Mobile:     strings.TrimSpace(mobile),
		Pending:    money.Zero,
		CreateDate: now,
		UpdatedAt:  now,
	}
}

func (c *Customer) HasPending() bool {
	return c.Pending.IsPositive()
}

// DialNumber returns the customer's mobile stripped to digits, with a
// "91" country prefix added for bare 10-digit numbers. Empty when no
// usable number is on record. Used by the messaging collaborator to
// build reminder links.
func (c *Customer) DialNumber() string {
	var digits strings.Builder
	for _, r := range c.Mobile {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}
	if len(d) == 10 {
		return "91" + d
	}
	return d
}
