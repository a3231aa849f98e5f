package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// MockValuer is a service.Valuer returning canned quotes.
// It records how often it was called and with which codes.
type MockValuer struct {
	mu sync.Mutex

	// MockQuotes are returned for the codes that are present in the map
	MockQuotes map[string]model.Quote
	// MockError is returned instead of quotes when set
	MockError error
	// QueryCount tracks how many times Quotes was called
	QueryCount int
	// LastCodes holds the codes of the most recent call
	LastCodes []string

	hold *valuerHold
}

type valuerHold struct {
	entered chan struct{}
	release chan struct{}
}

// NewMockValuer creates a mock that knows no codes.
func NewMockValuer() *MockValuer {
	return &MockValuer{MockQuotes: map[string]model.Quote{}}
}

// Hold makes the next call to Quotes block until release is called or its
// context ends. entered is closed once that call is blocked.
func (m *MockValuer) Hold() (entered <-chan struct{}, release func()) {
	h := &valuerHold{entered: make(chan struct{}), release: make(chan struct{})}
	m.mu.Lock()
	m.hold = h
	m.mu.Unlock()

	var once sync.Once
	return h.entered, func() { once.Do(func() { close(h.release) }) }
}

// Quotes returns the configured quotes for codes, or MockError.
func (m *MockValuer) Quotes(ctx context.Context, codes []string) (map[string]model.Quote, error) {
	m.mu.Lock()
	h := m.hold
	m.hold = nil
	m.mu.Unlock()

	if h != nil {
		close(h.entered)
		select {
		case <-h.release:
		case <-ctx.Done():
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	m.LastCodes = append([]string(nil), codes...)

	if m.MockError != nil {
		return nil, m.MockError
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quotes := make(map[string]model.Quote, len(codes))
	for _, code := range codes {
		if q, ok := m.MockQuotes[code]; ok {
			quotes[code] = q
		}
	}
	return quotes, nil
}

// WithError configures the mock to return the specified error.
func (m *MockValuer) WithError(err error) *MockValuer {
	m.MockError = err
	return m
}

// WithPrice adds a quote for code with netWorth as its only price.
func (m *MockValuer) WithPrice(code string, netWorth float64) *MockValuer {
	m.MockQuotes[code] = model.Quote{Code: code, Name: MakeFundName(code), NetWorth: netWorth}
	return m
}

// WithQuote adds a fully specified quote.
func (m *MockValuer) WithQuote(q model.Quote) *MockValuer {
	m.MockQuotes[q.Code] = q
	return m
}

// Calls returns QueryCount under the lock.
func (m *MockValuer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}
