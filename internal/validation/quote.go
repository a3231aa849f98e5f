package validation

import (
	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/request"
)

// ValidateUpsertQuote validates a quote submission. Prices cannot be
// negative and at least one of netWorth and expectWorth must be positive,
// otherwise the quote could never value a position.
func ValidateUpsertQuote(code string, req request.UpsertQuoteRequest) error {
	errors := make(map[string]string)

	validateCodeField(errors, code)

	if req.NetWorth < 0 {
		errors["netWorth"] = "netWorth cannot be negative"
	}
	if req.ExpectWorth < 0 {
		errors["expectWorth"] = "expectWorth cannot be negative"
	}
	if req.NetWorth <= 0 && req.ExpectWorth <= 0 {
		errors["price"] = "netWorth or expectWorth must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
