package handler

import (
	"context"

	addressbookapp "github.com/addressbook/backend/internal/application/addressbook"
	"github.com/addressbook/backend/internal/domain/addressbook"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AddressBookService is the application service behind AddressBookHandler
type AddressBookService interface {
	CreateAddressBook(ctx context.Context, input addressbookapp.CreateAddressBookInput) (*addressbookapp.AddressBookResponse, error)
	AddCustomerToBook(ctx context.Context, bookID uuid.UUID, input addressbookapp.CustomerInput) (*addressbookapp.CustomerResponse, error)
	RemoveCustomerFromBook(ctx context.Context, bookID, customerID uuid.UUID) error
	ListCustomersOfBook(ctx context.Context, bookID uuid.UUID) ([]addressbookapp.CustomerResponse, error)
	GetAddressBook(ctx context.Context, bookID uuid.UUID) (*addressbookapp.AddressBookResponse, error)
	ListDistinctCustomersAcrossAllBooks(ctx context.Context) ([]addressbookapp.CustomerResponse, error)
}

var _ AddressBookService = (*addressbookapp.Service)(nil)

// Path parameter names
const (
	ParamAddressBookID = "addressBookId"
	ParamCustomerID    = "customerId"
)

// requestFieldMessages maps JSON fields to the messages clients expect
var requestFieldMessages = map[string]string{
	"name":        addressbook.MsgNameRequired,
	"firstName":   addressbook.MsgFirstNameRequired,
	"lastName":    addressbook.MsgLastNameRequired,
	"phoneNumber": addressbook.MsgPhoneNumberRequired,
}

// AddressBookHandler handles address book API endpoints
type AddressBookHandler struct {
	BaseHandler
	service AddressBookService
}

// NewAddressBookHandler creates a new AddressBookHandler
func NewAddressBookHandler(service AddressBookService) *AddressBookHandler {
	return &AddressBookHandler{service: service}
}

// Create godoc
// @Summary      Create an address book
// @Description  Create an address book, optionally with initial customers
// @Tags         address-book
// @Accept       json
// @Produce      json
// @Param        request body addressbookapp.CreateAddressBookInput true "Address book"
// @Success      200 {object} addressbookapp.AddressBookResponse
// @Failure      400 {object} dto.ValidationErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /address-book/ [post]
func (h *AddressBookHandler) Create(c *gin.Context) {
	var req addressbookapp.CreateAddressBookInput
	if err := h.BindJSON(c, &req, requestFieldMessages); err != nil {
		h.HandleError(c, err)
		return
	}

	book, err := h.service.CreateAddressBook(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, book)
}

// Get godoc
// @Summary      Get an address book
// @Tags         address-book
// @Produce      json
// @Param        addressBookId path string true "Address book ID"
// @Success      200 {object} addressbookapp.AddressBookResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /address-book/{addressBookId} [get]
func (h *AddressBookHandler) Get(c *gin.Context) {
	bookID, err := h.ParseUUIDParam(c, ParamAddressBookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	book, err := h.service.GetAddressBook(c.Request.Context(), bookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, book)
}

// AddCustomer godoc
// @Summary      Add a customer to an address book
// @Description  Adding a customer equal to one already in the book returns the stored customer
// @Tags         address-book
// @Accept       json
// @Produce      json
// @Param        addressBookId path string true "Address book ID"
// @Param        request body addressbookapp.CustomerInput true "Customer"
// @Success      200 {object} addressbookapp.CustomerResponse
// @Failure      400 {object} dto.ValidationErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /address-book/{addressBookId}/customer [post]
func (h *AddressBookHandler) AddCustomer(c *gin.Context) {
	bookID, err := h.ParseUUIDParam(c, ParamAddressBookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req addressbookapp.CustomerInput
	if err := h.BindJSON(c, &req, requestFieldMessages); err != nil {
		h.HandleError(c, err)
		return
	}

	customer, err := h.service.AddCustomerToBook(c.Request.Context(), bookID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, customer)
}

// RemoveCustomer godoc
// @Summary      Remove a customer from an address book
// @Description  Removing a customer that is not in the book is a no-op
// @Tags         address-book
// @Param        addressBookId path string true "Address book ID"
// @Param        customerId path string true "Customer ID"
// @Success      200
// @Failure      404 {object} dto.ErrorResponse
// @Router       /address-book/{addressBookId}/customer/{customerId} [delete]
func (h *AddressBookHandler) RemoveCustomer(c *gin.Context) {
	bookID, err := h.ParseUUIDParam(c, ParamAddressBookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	customerID, err := h.ParseUUIDParam(c, ParamCustomerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.service.RemoveCustomerFromBook(c.Request.Context(), bookID, customerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OKEmpty(c)
}

// ListCustomers godoc
// @Summary      List the customers of an address book
// @Tags         address-book
// @Produce      json
// @Param        addressBookId path string true "Address book ID"
// @Success      200 {array} addressbookapp.CustomerResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /address-book/{addressBookId}/customers [get]
func (h *AddressBookHandler) ListCustomers(c *gin.Context) {
	bookID, err := h.ParseUUIDParam(c, ParamAddressBookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	customers, err := h.service.ListCustomersOfBook(c.Request.Context(), bookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, customers)
}

// ListDistinctCustomers godoc
// @Summary      List distinct customers across all address books
// @Tags         address-book
// @Produce      json
// @Success      200 {array} addressbookapp.CustomerResponse
// @Router       /address-book/customers [get]
func (h *AddressBookHandler) ListDistinctCustomers(c *gin.Context) {
	customers, err := h.service.ListDistinctCustomersAcrossAllBooks(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, customers)
}
