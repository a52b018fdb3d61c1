package addressbook

import (
	"strings"

	"github.com/addressbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Validation messages for required customer fields
const (
	MsgFirstNameRequired   = "Please provide first Name"
	MsgLastNameRequired    = "Please provide last Name"
	MsgPhoneNumberRequired = "Please provide Mobile or Landline number"
)

// Customer is a contact owned by exactly one AddressBook
type Customer struct {
	shared.BaseEntity
	FirstName   string
	LastName    string
	PhoneNumber string
}

// CustomerKey is the value tuple that identifies a customer for deduplication.
// Two customers with equal keys are the same logical contact regardless of ID.
type CustomerKey struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}

// NewCustomer creates an unsaved customer with all required fields
func NewCustomer(firstName, lastName, phoneNumber string) (Customer, error) {
	c := Customer{
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phoneNumber,
	}
	if err := c.Validate(); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Validate checks that every required field is present
func (c Customer) Validate() error {
	var details []string
	if strings.TrimSpace(c.FirstName) == "" {
		details = append(details, MsgFirstNameRequired)
	}
	if strings.TrimSpace(c.LastName) == "" {
		details = append(details, MsgLastNameRequired)
	}
	if strings.TrimSpace(c.PhoneNumber) == "" {
		details = append(details, MsgPhoneNumberRequired)
	}
	if len(details) > 0 {
		return shared.NewValidationError(details...)
	}
	return nil
}

// Key returns the customer's value tuple
func (c Customer) Key() CustomerKey {
	return CustomerKey{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
	}
}

// Equal reports value-tuple equality, ignoring ID
func (c Customer) Equal(other Customer) bool {
	return c.Key() == other.Key()
}

// HasID reports whether the customer carries the given surrogate ID
func (c Customer) HasID(id uuid.UUID) bool {
	return id != uuid.Nil && c.ID == id
}
