package addressbook

import (
	"github.com/addressbook/backend/internal/domain/addressbook"
	"github.com/google/uuid"
)

// =============================================================================
// Inputs
// =============================================================================

// CustomerInput carries the fields of a customer to add
type CustomerInput struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// CreateAddressBookInput carries a new book and its initial customers
type CreateAddressBookInput struct {
	Name      string          `json:"name" binding:"required"`
	Customers []CustomerInput `json:"customers" binding:"omitempty,dive"`
}

// =============================================================================
// Responses
// =============================================================================

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
}

// AddressBookResponse represents an address book in API responses
type AddressBookResponse struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Customers []CustomerResponse `json:"customers"`
}

// ToCustomerResponse converts a domain Customer to a response
func ToCustomerResponse(c addressbook.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
	}
}

// ToCustomerResponses converts customers to responses. The result is never nil.
func ToCustomerResponses(customers []addressbook.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerResponse(c)
	}
	return responses
}

// ToAddressBookResponse converts a domain AddressBook to a response
func ToAddressBookResponse(b *addressbook.AddressBook) AddressBookResponse {
	return AddressBookResponse{
		ID:        b.ID,
		Name:      b.Name,
		Customers: ToCustomerResponses(b.Customers),
	}
}
