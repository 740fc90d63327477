package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vmplane/vmplane/internal/db/models"
)

// VMRepository provides access to VM job record database operations
type VMRepository struct {
	db *gorm.DB
}

// NewVMRepository creates a new VM repository instance
func NewVMRepository(db *gorm.DB) *VMRepository {
	return &VMRepository{db: db}
}

// Create inserts a single VM record. The record is committed and visible to
// concurrent reads before this call returns.
func (r *VMRepository) Create(ctx context.Context, vm *models.VM) error {
	return r.db.WithContext(ctx).Create(vm).Error
}

// CreateBatch inserts all records inside one transaction, in slice order.
// If any insert fails the transaction is rolled back and no rows from the
// batch remain.
func (r *VMRepository) CreateBatch(ctx context.Context, vms []*models.VM) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, vm := range vms {
			if err := tx.Create(vm).Error; err != nil {
				return fmt.Errorf("failed to insert vm %q: %w", vm.Name, err)
			}
		}
		return nil
	})
}

// UpdateResult writes the terminal status and result text of a VM record in
// a single update. Only one execution goroutine ever writes to a given id,
// exactly once.
func (r *VMRepository) UpdateResult(ctx context.Context, id uint, status models.VMStatus, result string) error {
	return r.db.WithContext(ctx).Model(&models.VM{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": status,
			"result": result,
		}).Error
}

// GetByID retrieves a VM record by its identifier
func (r *VMRepository) GetByID(ctx context.Context, id uint) (*models.VM, error) {
	var vm models.VM
	err := r.db.WithContext(ctx).First(&vm, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("vm not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vm: %w", err)
	}
	return &vm, nil
}

// List returns VM records, newest first. A non-empty status narrows the
// result to records in that state.
func (r *VMRepository) List(ctx context.Context, status models.VMStatus) ([]models.VM, error) {
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var vms []models.VM
	err := query.
		Order(models.VMCreatedAtField + " DESC").
		Find(&vms).Error
	return vms, err
}

// Count returns the number of VM records
func (r *VMRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.VM{}).Count(&count).Error
	return count, err
}
