package addressbook

import (
	"context"
	"errors"

	"github.com/addressbook/backend/internal/domain/addressbook"
	"github.com/addressbook/backend/internal/domain/shared"
	"github.com/addressbook/backend/internal/infrastructure/logger"
	"github.com/addressbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Not-found messages returned to clients
const (
	msgBookNotFoundOnAdd    = "Address Book Not Found"
	msgBookNotFoundOnRemove = "AddressBook not found"
	msgBookNotFoundOnGet    = "Address Book not found"
)

// Operation names used for spans and metrics
const (
	opCreate         = "create"
	opAddCustomer    = "add_customer"
	opRemoveCustomer = "remove_customer"
	opListCustomers  = "list_customers"
	opGet            = "get"
	opListDistinct   = "list_distinct_customers"
	opClear          = "clear"
)

const spanService = "address_book"

// Service handles address book business operations
type Service struct {
	repo    addressbook.Repository
	logger  *zap.Logger
	metrics *telemetry.AddressBookMetrics
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithMetrics records operation counters on m
func WithMetrics(m *telemetry.AddressBookMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new Service
func NewService(repo addressbook.Repository, log *zap.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		repo:   repo,
		logger: log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAddressBook persists a new address book with its initial customers
func (s *Service) CreateAddressBook(ctx context.Context, input CreateAddressBookInput) (_ *AddressBookResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, opCreate)
	defer func() { s.end(ctx, span, opCreate, err) }()

	customers := make([]addressbook.Customer, 0, len(input.Customers))
	for _, in := range input.Customers {
		customers = append(customers, addressbook.Customer{
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			PhoneNumber: in.PhoneNumber,
		})
	}

	book, err := addressbook.NewAddressBook(input.Name, customers...)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return nil, s.fail(ctx, "create address book", err)
	}

	s.metrics.RecordCustomersAdded(ctx, book.CustomerCount())
	telemetry.SetAttributes(trace.SpanFromContext(ctx),
		telemetry.SpanAttrAddressBookID, book.ID.String(),
		telemetry.SpanAttrCustomerCount, book.CustomerCount(),
	)
	s.log(ctx).Info("Address Book created",
		zap.String("address_book_id", book.ID.String()),
		zap.Int("customers", book.CustomerCount()),
	)
	resp := ToAddressBookResponse(book)
	return &resp, nil
}

// AddCustomerToBook adds a customer to an existing book. Adding a customer
// equal to one already in the book leaves the book unchanged and returns the
// stored customer.
func (s *Service) AddCustomerToBook(ctx context.Context, bookID uuid.UUID, input CustomerInput) (_ *CustomerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, opAddCustomer,
		attribute.String(telemetry.SpanAttrAddressBookID, bookID.String()))
	defer func() { s.end(ctx, span, opAddCustomer, err) }()

	customer, err := addressbook.NewCustomer(input.FirstName, input.LastName, input.PhoneNumber)
	if err != nil {
		return nil, err
	}

	book, err := s.load(ctx, bookID, msgBookNotFoundOnAdd)
	if err != nil {
		return nil, err
	}

	_, added := book.AddCustomer(customer)
	if err := s.repo.Save(ctx, book); err != nil {
		return nil, s.fail(ctx, "add customer", err)
	}
	if added {
		s.metrics.RecordCustomersAdded(ctx, 1)
	}

	// Saving assigns IDs, so look the customer up again in the saved set
	stored, ok := book.FindEqual(customer)
	if !ok {
		return nil, s.fail(ctx, "add customer", errors.New("customer missing from saved address book"))
	}

	s.log(ctx).Info("Customer successfully added to Address Book",
		zap.String("address_book_id", book.ID.String()),
		zap.String("customer_id", stored.ID.String()),
	)
	resp := ToCustomerResponse(stored)
	return &resp, nil
}

// RemoveCustomerFromBook removes a customer from a book by ID. A customer ID
// that is not in the book is not an error.
func (s *Service) RemoveCustomerFromBook(ctx context.Context, bookID, customerID uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, opRemoveCustomer,
		attribute.String(telemetry.SpanAttrAddressBookID, bookID.String()),
		attribute.String(telemetry.SpanAttrCustomerID, customerID.String()))
	defer func() { s.end(ctx, span, opRemoveCustomer, err) }()

	book, err := s.load(ctx, bookID, msgBookNotFoundOnRemove)
	if err != nil {
		return err
	}

	removed := book.RemoveCustomer(customerID)
	if err := s.repo.Save(ctx, book); err != nil {
		return s.fail(ctx, "remove customer", err)
	}

	if removed {
		s.metrics.RecordCustomerRemoved(ctx)
	}
	s.log(ctx).Info("Removed Customer from AddressBook",
		zap.String("address_book_id", book.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Bool("matched", removed),
	)
	return nil
}

// ListCustomersOfBook returns the customers of one book
func (s *Service) ListCustomersOfBook(ctx context.Context, bookID uuid.UUID) (_ []CustomerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, opListCustomers,
		attribute.String(telemetry.SpanAttrAddressBookID, bookID.String()))
	defer func() { s.end(ctx, span, opListCustomers, err) }()

	book, err := s.load(ctx, bookID, msgBookNotFoundOnRemove)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(book.Customers), nil
}

// GetAddressBook returns a single book with its customers
func (s *Service) GetAddressBook(ctx context.Context, bookID uuid.UUID) (_ *AddressBookResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, opGet,
		attribute.String(telemetry.SpanAttrAddressBookID, bookID.String()))
	defer func() { s.end(ctx, span, opGet, err) }()

	book, err := s.load(ctx, bookID, msgBookNotFoundOnGet)
	if err != nil {
		return nil, err
	}
	resp := ToAddressBookResponse(book)
	return &resp, nil
}

// ListDistinctCustomersAcrossAllBooks returns every distinct customer across
// all books, deduplicated by first name, last name and phone number
func (s *Service) ListDistinctCustomersAcrossAllBooks(ctx context.Context) (_ []CustomerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, opListDistinct)
	defer func() { s.end(ctx, span, opListDistinct, err) }()

	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list address books", err)
	}
	return ToCustomerResponses(addressbook.DistinctCustomers(books)), nil
}

// ClearAddressBooks deletes every book and customer
func (s *Service) ClearAddressBooks(ctx context.Context) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, opClear)
	defer func() { s.end(ctx, span, opClear, err) }()

	if err := s.repo.DeleteAll(ctx); err != nil {
		return s.fail(ctx, "clear address books", err)
	}
	s.log(ctx).Warn("All address books deleted")
	return nil
}

func (s *Service) load(ctx context.Context, bookID uuid.UUID, notFoundMsg string) (*addressbook.AddressBook, error) {
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(notFoundMsg)
		}
		return nil, s.fail(ctx, "load address book", err)
	}
	return book, nil
}

// fail logs err and converts it to an internal error. Domain errors pass through.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	s.log(ctx).Error("address book operation failed",
		zap.String("operation", op),
		zap.Error(err),
	)
	return shared.NewInternalError(err)
}

// end records the outcome of op on its span and metrics, then ends the span
func (s *Service) end(ctx context.Context, span trace.Span, op string, err error) {
	outcome := telemetry.OutcomeSuccess
	if err != nil {
		switch shared.KindOf(err) {
		case shared.KindNotFound:
			outcome = telemetry.OutcomeNotFound
		case shared.KindValidation, shared.KindMalformedRequest:
			outcome = telemetry.OutcomeInvalid
		default:
			outcome = telemetry.OutcomeError
		}
		telemetry.RecordError(span, err)
	}
	s.metrics.RecordOperation(ctx, op, outcome)
	span.End()
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.WithTraceContext(ctx, logger.FromContextOr(ctx, s.logger))
}
