package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopping"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"gorm.io/gorm"
)

// GormListRepository implements shopping.ListRepository using GORM
type GormListRepository struct {
	db *gorm.DB
}

// NewGormListRepository creates a new GormListRepository
func NewGormListRepository(db *gorm.DB) *GormListRepository {
	return &GormListRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GormListRepository) WithTx(tx *gorm.DB) *GormListRepository {
	return &GormListRepository{db: tx}
}

// Atomically runs fn inside one database transaction
func (r *GormListRepository) Atomically(ctx context.Context, fn func(repo shopping.ListRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *GormListRepository) scoped(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ListEntryModel{}).
		Where("owner_key = ? AND kind = ?", owner.String(), string(kind))
}

// Get loads a list in insertion order
func (r *GormListRepository) Get(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind) (*shopping.List, error) {
	var rows []models.ListEntryModel
	if err := r.scoped(ctx, owner, kind).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	list := shopping.NewList(owner, kind)
	for i := range rows {
		list.Entries = append(list.Entries, rows[i].ToDomain())
	}
	return list, nil
}

// Find returns one entry
func (r *GormListRepository) Find(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind, productID int64) (*shopping.Entry, error) {
	var row models.ListEntryModel
	if err := r.scoped(ctx, owner, kind).Where("product_id = ?", productID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	entry := row.ToDomain()
	return &entry, nil
}

// Exists reports whether productID is in the list
func (r *GormListRepository) Exists(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind, productID int64) (bool, error) {
	var count int64
	if err := r.scoped(ctx, owner, kind).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert appends an entry; the unique index rejects duplicates
func (r *GormListRepository) Insert(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind, entry shopping.Entry) error {
	row := models.ListEntryModelFromDomain(owner, kind, entry)
	now := time.Now()
	row.CreatedAt = now
	row.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// Delete removes an entry
func (r *GormListRepository) Delete(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind, productID int64) error {
	result := r.db.WithContext(ctx).
		Where("owner_key = ? AND kind = ? AND product_id = ?", owner.String(), string(kind), productID).
		Delete(&models.ListEntryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateQuantity sets a cart line's quantity; zero or less removes the line
func (r *GormListRepository) UpdateQuantity(ctx context.Context, owner shopping.OwnerKey, productID int64, qty int) error {
	if qty <= 0 {
		return r.Delete(ctx, owner, shopping.KindCart, productID)
	}
	result := r.scoped(ctx, owner, shopping.KindCart).
		Where("product_id = ?", productID).
		Updates(map[string]any{"quantity": qty, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Clear removes every entry of a list
func (r *GormListRepository) Clear(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind) error {
	return r.db.WithContext(ctx).
		Where("owner_key = ? AND kind = ?", owner.String(), string(kind)).
		Delete(&models.ListEntryModel{}).Error
}

// PruneGuestLists deletes guest entries untouched since cutoff and returns how many went.
// Customer lists are never pruned.
func (r *GormListRepository) PruneGuestLists(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_key LIKE ? AND updated_at < ?", "session:%", cutoff).
		Delete(&models.ListEntryModel{})
	return result.RowsAffected, result.Error
}

// CountEntries reports stored entries per list kind and owner type
func (r *GormListRepository) CountEntries(ctx context.Context) ([]telemetry.ListEntryCount, error) {
	var rows []struct {
		Kind      string
		OwnerType string
		Entries   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ListEntryModel{}).
		Select("kind, CASE WHEN owner_key LIKE 'session:%' THEN 'guest' ELSE 'customer' END AS owner_type, COUNT(*) AS entries").
		Group("kind, owner_type").
		Order("kind, owner_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]telemetry.ListEntryCount, len(rows))
	for i, row := range rows {
		out[i] = telemetry.ListEntryCount{Kind: row.Kind, OwnerType: row.OwnerType, Entries: row.Entries}
	}
	return out, nil
}

var (
	_ shopping.ListRepository     = (*GormListRepository)(nil)
	_ telemetry.ListStatsProvider = (*GormListRepository)(nil)
)
