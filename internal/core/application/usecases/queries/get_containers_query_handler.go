package queries

import (
	"context"

	"assetsync/internal/core/domain/model/change"
)

type GetContainersQueryHandler struct {
	containers ContainerReader
}

func NewGetContainersQueryHandler(containers ContainerReader) GetContainersQueryHandler {
	return GetContainersQueryHandler{containers: containers}
}

func (h GetContainersQueryHandler) Handle(
	ctx context.Context,
	query GetContainersQuery,
) ([]change.ContainerSnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	containers, err := h.containers.List(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]change.ContainerSnapshot, 0, len(containers))
	for _, c := range containers {
		response = append(response, change.SnapshotContainer(c))
	}
	return response, nil
}
