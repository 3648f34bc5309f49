package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicing/backend/internal/domain/billing"
)

// GormClientRepository implements billing.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// active scopes every query to non-deleted rows. The filter lives here,
// in one place, so no query path can forget it.
func (r *GormClientRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("is_deleted = ?", false)
}

// FindAll returns all non-deleted clients
func (r *GormClientRepository) FindAll(ctx context.Context) ([]billing.Client, error) {
	var clients []billing.Client
	if err := r.active(ctx).Order("created_at").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// FindByID finds a non-deleted client by ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Client, error) {
	var client billing.Client
	if err := r.active(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// Create persists a new client
func (r *GormClientRepository) Create(ctx context.Context, client *billing.Client) error {
	now := time.Now()
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	client.CreatedAt = now
	client.UpdatedAt = now
	return r.db.WithContext(ctx).Create(client).Error
}

// Update overwrites the mutable fields of an existing non-deleted client.
// Returns false without writing when the row is absent.
func (r *GormClientRepository) Update(ctx context.Context, client *billing.Client) (bool, error) {
	var existing billing.Client
	if err := r.active(ctx).Where("id = ?", client.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	existing.Name = client.Name
	existing.Email = client.Email
	existing.CompanyName = client.CompanyName
	existing.Address = client.Address
	existing.PhoneNumber = client.PhoneNumber
	existing.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Delete soft-deletes a client. Returns false when the row is absent or
// already deleted.
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var existing billing.Client
	if err := r.active(ctx).Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	existing.MarkDeleted()
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return false, err
	}
	return true, nil
}

var _ billing.ClientRepository = (*GormClientRepository)(nil)
