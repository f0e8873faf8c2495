package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"shop-ledger/internal/domain/customer"
)

type RegisterCustomerRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

func (r *RegisterCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

type CustomerResponse struct {
	CustomerID string    `json:"customerId"`
	Name       string    `json:"name"`
	Mobile     string    `json:"mobile,omitempty"`
	Pending    string    `json:"pending"`
	CreateDate time.Time `json:"createDate"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		CustomerID: strconv.FormatInt(cust.CustomerID, 10),
		Name:       cust.Name,
		Mobile:     cust.Mobile,
		Pending:    cust.Pending.Format(),
		CreateDate: cust.CreateDate,
		UpdatedAt:  cust.UpdatedAt,
	}
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
