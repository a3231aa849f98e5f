package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - date: a real calendar date, YYYY-MM-DD or YYYY/MM/DD
//   - code: digits only, at most six
//   - type: buy, sell or dividend (the 买入/卖出/分红 labels are accepted too)
//   - actualAmount: non-zero
//
// shares must be positive for buys and sells and non-negative for dividends
// (zero means a cash dividend). fee must not be negative.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	validateDate(errors, req.Date)
	validateCodeField(errors, req.Code)
	kind := validateType(errors, req.Type)

	if req.ActualAmount == 0 || math.IsNaN(req.ActualAmount) {
		errors["actualAmount"] = "actualAmount must be non-zero"
	}
	validateShares(errors, kind, req.Shares)
	if req.Fee < 0 {
		errors["fee"] = "fee cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateTransaction validates a transaction update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
// The shares rule is checked against the submitted type, or against
// currentKind when the type is not being changed.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest, currentKind model.TransactionKind) error {
	errors := make(map[string]string)

	if req.Date != nil {
		validateDate(errors, *req.Date)
	}
	if req.Code != nil {
		validateCodeField(errors, *req.Code)
	}
	kind := currentKind
	if req.Type != nil {
		kind = validateType(errors, *req.Type)
	}
	if req.ActualAmount != nil && (*req.ActualAmount == 0 || math.IsNaN(*req.ActualAmount)) {
		errors["actualAmount"] = "actualAmount must be non-zero"
	}
	if req.Shares != nil {
		validateShares(errors, kind, *req.Shares)
	}
	if req.Fee != nil && *req.Fee < 0 {
		errors["fee"] = "fee cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateDate(errors map[string]string, date string) {
	if strings.TrimSpace(date) == "" {
		errors["date"] = "date is required"
		return
	}
	if _, ok := ledger.ParseDate(date); !ok {
		errors["date"] = fmt.Sprintf("invalid date: %s", date)
	}
}

func validateCodeField(errors map[string]string, code string) {
	if err := ValidateCode(code); err != nil {
		errors["code"] = err.Error()
	}
}

func validateType(errors map[string]string, label string) model.TransactionKind {
	if strings.TrimSpace(label) == "" {
		errors["type"] = "type is required"
		return model.KindUnknown
	}
	kind := model.ParseKind(label)
	if kind == model.KindUnknown {
		errors["type"] = fmt.Sprintf("invalid type: %s", label)
	}
	return kind
}

func validateShares(errors map[string]string, kind model.TransactionKind, shares float64) {
	switch {
	case math.IsNaN(shares) || shares < 0:
		errors["shares"] = "shares cannot be negative"
	case shares == 0 && (kind == model.KindBuy || kind == model.KindSell):
		errors["shares"] = "shares must be positive"
	}
}
