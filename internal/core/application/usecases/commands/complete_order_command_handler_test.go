package commands_test

import (
	"testing"

	"assetsync/internal/core/application/usecases/commands"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompleteOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCompleteOrderCommand(131)
	require.NoError(t, err)

	testOrder := takenOrder(t, 131, 36, 96, 1)
	testContainer := assignedContainer(t, 36, 96, 1)

	orderRepo := new(MockOrderRepository)
	containerRepo := new(MockContainerRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("ContainerRepository").Return(containerRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, cmd.OrderID()).Return(testOrder, nil).Once(),
		containerRepo.On("GetForUpdate", ctx, kernel.ID(36)).Return(testContainer, nil).Once(),
		orderRepo.On("Update", ctx, testOrder).Return(nil).Once(),
		containerRepo.On("Update", ctx, testContainer).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteOrderCommandHandler(factory, commands.NoRetry())
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Completed, result.Status())
	assert.NotNil(t, result.DeliveryTime())
	assert.Nil(t, testContainer.AssignedTo())
	assert.Nil(t, testContainer.VehicleID())
	assert.Equal(t, container.Inactive, testContainer.Status())
	assert.Equal(t, kernel.ID(131), *testContainer.CompleteOrder())
	uow.AssertExpectations(t)
}

func TestCompleteOrderCommandHandler_Handle_StaleAssignment(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCompleteOrderCommand(131)

	testOrder := takenOrder(t, 131, 36, 96, 1)
	otherHolder := assignedContainer(t, 36, 42, 7)

	orderRepo := new(MockOrderRepository)
	containerRepo := new(MockContainerRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("ContainerRepository").Return(containerRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, cmd.OrderID()).Return(testOrder, nil).Once(),
		containerRepo.On("GetForUpdate", ctx, kernel.ID(36)).Return(otherHolder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteOrderCommandHandler(factory, commands.DefaultRetryPolicy())
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.True(t, otherHolder.IsAssignedTo(42, 7))
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCompleteOrderCommandHandler_Handle_AlreadyCompleted(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCompleteOrderCommand(131)

	testOrder := takenOrder(t, 131, 36, 96, 1)
	require.NoError(t, testOrder.Complete(fixedNow))

	orderRepo := new(MockOrderRepository)
	containerRepo := new(MockContainerRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("ContainerRepository").Return(containerRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, cmd.OrderID()).Return(testOrder, nil).Once(),
		containerRepo.On("GetForUpdate", ctx, kernel.ID(36)).Return(idleContainer(t, 36), nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteOrderCommandHandler(factory, commands.NoRetry())
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestNewCompleteOrderCommand_InvalidID(t *testing.T) {
	_, err := commands.NewCompleteOrderCommand(0)

	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidInput, errs.Classify(err))
}
