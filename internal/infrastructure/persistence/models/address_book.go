package models

import (
	"github.com/addressbook/backend/internal/domain/addressbook"
	"github.com/google/uuid"
)

// AddressBookModel is the persistence model for the AddressBook aggregate
type AddressBookModel struct {
	BaseModel
	Name      string          `gorm:"type:varchar(255);not null"`
	Customers []CustomerModel `gorm:"foreignKey:AddressBookID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AddressBookModel) TableName() string {
	return "address_book"
}

// ToDomain converts the model and its customers to a domain AddressBook
func (m *AddressBookModel) ToDomain() *addressbook.AddressBook {
	customers := make([]addressbook.Customer, 0, len(m.Customers))
	for i := range m.Customers {
		customers = append(customers, m.Customers[i].ToDomain())
	}
	return &addressbook.AddressBook{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Customers:  customers,
	}
}

// FromDomain populates the model from a domain AddressBook
func (m *AddressBookModel) FromDomain(b *addressbook.AddressBook) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Name = b.Name
	m.Customers = make([]CustomerModel, len(b.Customers))
	for i, c := range b.Customers {
		m.Customers[i].FromDomain(c, b.ID)
	}
}

// AddressBookModelFromDomain creates a new model from a domain AddressBook
func AddressBookModelFromDomain(b *addressbook.AddressBook) *AddressBookModel {
	m := &AddressBookModel{}
	m.FromDomain(b)
	return m
}

// CustomerModel is the persistence model for a Customer
type CustomerModel struct {
	BaseModel
	AddressBookID uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName     string    `gorm:"type:varchar(255);not null"`
	LastName      string    `gorm:"type:varchar(255);not null"`
	PhoneNumber   string    `gorm:"type:varchar(64);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customer"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() addressbook.Customer {
	return addressbook.Customer{
		BaseEntity:  m.BaseModel.ToDomain(),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
	}
}

// FromDomain populates the model from a domain Customer owned by bookID
func (m *CustomerModel) FromDomain(c addressbook.Customer, bookID uuid.UUID) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.AddressBookID = bookID
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.PhoneNumber = c.PhoneNumber
}
