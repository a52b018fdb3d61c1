package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/addressbook/backend/internal/domain/addressbook"
	"github.com/addressbook/backend/internal/domain/shared"
	"github.com/addressbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// customerOrder keeps customers in insertion order across reads
const customerOrder = "created_at, id"

// GormAddressBookRepository implements addressbook.Repository using GORM
type GormAddressBookRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormAddressBookRepository creates a new GormAddressBookRepository
func NewGormAddressBookRepository(db *gorm.DB) *GormAddressBookRepository {
	return &GormAddressBookRepository{db: db, now: time.Now}
}

func preloadCustomers(db *gorm.DB) *gorm.DB {
	return db.Order(customerOrder)
}

// FindByID finds an address book and its customers by ID
func (r *GormAddressBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*addressbook.AddressBook, error) {
	var model models.AddressBookModel
	if err := r.db.WithContext(ctx).
		Preload("Customers", preloadCustomers).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every address book with its customers, oldest first
func (r *GormAddressBookRepository) FindAll(ctx context.Context) ([]addressbook.AddressBook, error) {
	var modelList []models.AddressBookModel
	if err := r.db.WithContext(ctx).
		Preload("Customers", preloadCustomers).
		Order(customerOrder).
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	books := make([]addressbook.AddressBook, len(modelList))
	for i := range modelList {
		books[i] = *modelList[i].ToDomain()
	}
	return books, nil
}

// Save persists the book and reconciles its customer rows: rows no longer in
// the collection are deleted, the rest are inserted or updated. On success
// generated IDs and timestamps are written back to book.
func (r *GormAddressBookRepository) Save(ctx context.Context, book *addressbook.AddressBook) error {
	now := r.now().UTC()
	model := models.AddressBookModelFromDomain(book)
	model.Stamp(now)
	for i := range model.Customers {
		// distinct creation times keep reads in insertion order
		model.Customers[i].Stamp(now.Add(time.Duration(i) * time.Microsecond))
		model.Customers[i].AddressBookID = model.ID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Customers").
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
			}).
			Create(model).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(model.Customers))
		for i := range model.Customers {
			keep[i] = model.Customers[i].ID
		}

		orphans := tx.Where("address_book_id = ?", model.ID)
		if len(keep) > 0 {
			orphans = orphans.Where("id NOT IN ?", keep)
		}
		if err := orphans.Delete(&models.CustomerModel{}).Error; err != nil {
			return err
		}

		if len(model.Customers) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "phone_number", "updated_at"}),
		}).Create(&model.Customers).Error
	})
	if err != nil {
		return err
	}

	book.BaseEntity = model.BaseModel.ToDomain()
	for i := range book.Customers {
		book.Customers[i].BaseEntity = model.Customers[i].BaseModel.ToDomain()
	}
	return nil
}

// DeleteAll removes every customer and address book
func (r *GormAddressBookRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&models.CustomerModel{}).Error; err != nil {
			return err
		}
		return global.Delete(&models.AddressBookModel{}).Error
	})
}

var _ addressbook.Repository = (*GormAddressBookRepository)(nil)
