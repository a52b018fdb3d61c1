// Package models contains the GORM persistence models for the address book
// tables. They are kept apart from the domain types so the domain stays free
// of ORM tags; mappers convert in both directions.
//
//   - base.go: BaseModel with the surrogate ID and timestamps
//   - address_book.go: AddressBookModel and CustomerModel
package models
