package containerrepo

import (
	"context"
	"errors"

	"assetsync/internal/adapters/out/postgres/pgerr"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const table = "containers"

// GormContainerRepository implements ContainerRepository using GORM.
type GormContainerRepository struct {
	db *gorm.DB
}

// NewGormContainerRepository creates a new GORM container repository.
func NewGormContainerRepository(db *gorm.DB) *GormContainerRepository {
	return &GormContainerRepository{db: db}
}

// Add inserts a new container row at version 1.
func (r *GormContainerRepository) Add(ctx context.Context, aggregate *container.Container) error {
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
func (r *GormContainerRepository) Update(ctx context.Context, aggregate *container.Container) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate, expected+1)
	result := r.db.WithContext(ctx).
		Model(&ContainerDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Map(result.Error, table, aggregate.ID(), expected)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&ContainerDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return pgerr.Map(err, table, aggregate.ID(), expected)
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("container", aggregate.ID())
		}
		return errs.NewVersionConflictError(table, aggregate.ID(), expected)
	}

	aggregate.MarkPersisted()
	return nil
}

// Get retrieves a container by ID.
func (r *GormContainerRepository) Get(ctx context.Context, id kernel.ID) (*container.Container, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves a container with SELECT ... FOR UPDATE.
func (r *GormContainerRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*container.Container, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// List returns every container ordered by id.
func (r *GormContainerRepository) List(ctx context.Context) ([]*container.Container, error) {
	var dtos []ContainerDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, pgerr.Map(err, table, "all", 0)
	}

	containers := make([]*container.Container, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}

	return containers, nil
}

func (r *GormContainerRepository) get(ctx context.Context, db *gorm.DB, id kernel.ID) (*container.Container, error) {
	if err := id.ValidateAs("container_id"); err != nil {
		return nil, err
	}

	var dto ContainerDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("container", id)
		}
		return nil, pgerr.Map(err, table, id, 0)
	}

	return toDomain(dto)
}
