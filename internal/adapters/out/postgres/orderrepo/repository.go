package orderrepo

import (
	"context"
	"errors"

	"assetsync/internal/adapters/out/postgres/pgerr"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const table = "orders"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order row at version 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate, aggregate.Version()+1)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Map(err, table, aggregate.ID(), aggregate.Version())
	}

	aggregate.MarkPersisted()
	return nil
}

// Update writes the aggregate only if the row still carries aggregate.Version().
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate, expected+1)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Map(result.Error, table, aggregate.ID(), expected)
	}

	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate.ID(), expected)
	}

	aggregate.MarkPersisted()
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves an order with SELECT ... FOR UPDATE.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) GetActiveByContainer(ctx context.Context, containerID kernel.ID) (*order.Order, error) {
	if err := containerID.ValidateAs("container_id"); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Where("container_id = ? AND status IN ?", containerID.Int64(), activeStatuses()).
		Order("created_at, id").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active order for container", containerID)
		}
		return nil, pgerr.Map(err, table, containerID, 0)
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) ListActive(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status IN ?", activeStatuses()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Map(err, table, "active", 0)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.ID) (*order.Order, error) {
	if err := id.ValidateAs("order_id"); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, pgerr.Map(err, table, id, 0)
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) missingOrStale(ctx context.Context, id kernel.ID, expected int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Int64()).Count(&count).Error; err != nil {
		return pgerr.Map(err, table, id, expected)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id)
	}
	return errs.NewVersionConflictError(table, id, expected)
}
