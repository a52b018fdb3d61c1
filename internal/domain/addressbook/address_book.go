package addressbook

import (
	"strings"

	"github.com/addressbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MsgNameRequired is returned when an address book has no name
const MsgNameRequired = "Please provide name for address book"

// AddressBook is the aggregate root owning a set of customers.
// Customers behave as a set under value-tuple equality: the slice never
// holds two customers with the same Key.
type AddressBook struct {
	shared.BaseEntity
	Name      string
	Customers []Customer
}

// NewAddressBook creates an unsaved address book. Supplied customers are
// validated and collapsed under value-tuple equality.
func NewAddressBook(name string, customers ...Customer) (*AddressBook, error) {
	var details []string
	if strings.TrimSpace(name) == "" {
		details = append(details, MsgNameRequired)
	}
	for _, c := range customers {
		if err := c.Validate(); err != nil {
			if de, ok := err.(*shared.DomainError); ok {
				details = append(details, de.Details...)
			}
		}
	}
	if len(details) > 0 {
		return nil, shared.NewValidationError(details...)
	}

	book := &AddressBook{
		Name:      name,
		Customers: make([]Customer, 0, len(customers)),
	}
	for _, c := range customers {
		book.AddCustomer(c)
	}
	return book, nil
}

// AddCustomer adds c to the set. If a value-equal customer is already
// present the set is left unchanged and the existing customer is returned
// with added=false.
func (b *AddressBook) AddCustomer(c Customer) (stored Customer, added bool) {
	if existing, ok := b.FindEqual(c); ok {
		return existing, false
	}
	b.Customers = append(b.Customers, c)
	return c, true
}

// FindEqual returns the first customer value-equal to c
func (b *AddressBook) FindEqual(c Customer) (Customer, bool) {
	for _, existing := range b.Customers {
		if existing.Equal(c) {
			return existing, true
		}
	}
	return Customer{}, false
}

// RemoveCustomer drops the customer with the given ID. IDs are unique, so at
// most one customer is removed. Returns false if nothing matched.
func (b *AddressBook) RemoveCustomer(id uuid.UUID) bool {
	for i, c := range b.Customers {
		if c.HasID(id) {
			b.Customers = append(b.Customers[:i], b.Customers[i+1:]...)
			return true
		}
	}
	return false
}

// CustomerIDs returns the IDs of customers that have been persisted
func (b *AddressBook) CustomerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.Customers))
	for _, c := range b.Customers {
		if !c.IsNew() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// CustomerCount returns the number of customers in the book
func (b *AddressBook) CustomerCount() int {
	return len(b.Customers)
}

// DistinctCustomers unions the customers of all books under value-tuple
// equality. The first occurrence of each contact wins and output order
// follows first appearance.
func DistinctCustomers(books []AddressBook) []Customer {
	seen := make(map[CustomerKey]struct{})
	result := make([]Customer, 0)
	for _, book := range books {
		for _, c := range book.Customers {
			key := c.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, c)
		}
	}
	return result
}
