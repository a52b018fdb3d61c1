package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// Operation outcomes recorded on address book metrics
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// AddressBookMetrics records address book operations.
type AddressBookMetrics struct {
	operations       *Counter
	customersAdded   *Counter
	customersRemoved *Counter
}

// NewAddressBookMetrics creates the address book instruments on meter.
func NewAddressBookMetrics(meter metric.Meter) (*AddressBookMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	operations, err := NewCounter(meter,
		"address_book_operations_total",
		"Address book service operations by name and outcome",
		"{operation}",
	)
	if err != nil {
		return nil, err
	}
	customersAdded, err := NewCounter(meter,
		"address_book_customers_added_total",
		"Customers added to address books",
		"{customer}",
	)
	if err != nil {
		return nil, err
	}
	customersRemoved, err := NewCounter(meter,
		"address_book_customers_removed_total",
		"Customers removed from address books",
		"{customer}",
	)
	if err != nil {
		return nil, err
	}

	return &AddressBookMetrics{
		operations:       operations,
		customersAdded:   customersAdded,
		customersRemoved: customersRemoved,
	}, nil
}

// RecordOperation counts one service operation. Safe on a nil receiver.
func (m *AddressBookMetrics) RecordOperation(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String(outcome))
}

// RecordCustomersAdded counts customers that entered a book. Safe on a nil receiver.
func (m *AddressBookMetrics) RecordCustomersAdded(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.customersAdded.Add(ctx, int64(n))
}

// RecordCustomerRemoved counts one removed customer. Safe on a nil receiver.
func (m *AddressBookMetrics) RecordCustomerRemoved(ctx context.Context) {
	if m == nil {
		return
	}
	m.customersRemoved.Inc(ctx)
}
