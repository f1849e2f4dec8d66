package queries

import (
	"errors"

	"assetsync/internal/pkg/guard"
)

var ErrGetContainersQueryIsNotConstructed = errors.New(
	"GetContainersQuery must be created via NewGetContainersQuery constructor",
)

// GetContainersQuery lists all containers with their assignment and live position.
type GetContainersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetContainersQuery() GetContainersQuery {
	return GetContainersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetContainersQuery) Validate() error {
	return q.guard.Validate(ErrGetContainersQueryIsNotConstructed)
}
