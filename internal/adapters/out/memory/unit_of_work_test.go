package memory_test

import (
	"context"
	"testing"
	"time"

	"assetsync/internal/adapters/out/memory"
	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_AddAssignsFirstVersion(t *testing.T) {
	_, f := newStore(t)
	o := seedOrder(t, f, 131, 36)

	assert.Equal(t, int64(1), o.Version())

	got, err := f.Create().OrderRepository().Get(context.Background(), 131)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version())
}

func TestUnitOfWork_AddDuplicate(t *testing.T) {
	_, f := newStore(t)
	seedContainer(t, f, 36)

	err := f.Create().ContainerRepository().Add(context.Background(), mustContainer(t, 36))
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestUnitOfWork_UpdateIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	_, f := newStore(t)
	seedContainer(t, f, 36)

	repo := f.Create().ContainerRepository()
	first, err := repo.Get(ctx, 36)
	require.NoError(t, err)
	second, err := repo.Get(ctx, 36)
	require.NoError(t, err)

	require.NoError(t, first.Assign(1, 96, seededAt))
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, int64(2), first.Version())

	require.NoError(t, second.Assign(2, 97, seededAt))
	err = repo.Update(ctx, second)
	require.ErrorIs(t, err, errs.ErrVersionConflict)
	assert.Equal(t, int64(1), second.Version())
}

func TestUnitOfWork_RollbackDiscardsStagedWrites(t *testing.T) {
	ctx := context.Background()
	_, f := newStore(t)
	seedContainer(t, f, 36)

	uow := f.Create()
	require.NoError(t, uow.Begin(ctx))
	c, err := uow.ContainerRepository().GetForUpdate(ctx, 36)
	require.NoError(t, err)
	require.NoError(t, c.Assign(1, 96, seededAt))
	require.NoError(t, uow.ContainerRepository().Update(ctx, c))

	staged, err := uow.ContainerRepository().Get(ctx, 36)
	require.NoError(t, err)
	assert.True(t, staged.IsAssigned())

	require.NoError(t, uow.Rollback(ctx))

	stored, err := f.Create().ContainerRepository().Get(ctx, 36)
	require.NoError(t, err)
	assert.False(t, stored.IsAssigned())
	assert.Equal(t, int64(1), stored.Version())
}

func TestUnitOfWork_CommitWithoutBegin(t *testing.T) {
	uow := memory.NewUnitOfWorkFactory(memory.NewStore(nopLogger())).Create()
	require.ErrorIs(t, uow.Commit(context.Background()), memory.ErrNoActiveTransaction)
	require.ErrorIs(t, uow.Rollback(context.Background()), memory.ErrNoActiveTransaction)
}

func TestUnitOfWork_GetForUpdateBlocksSecondWriter(t *testing.T) {
	ctx := context.Background()
	_, f := newStore(t)
	seedContainer(t, f, 36)

	holder := f.Create()
	require.NoError(t, holder.Begin(ctx))
	_, err := holder.ContainerRepository().GetForUpdate(ctx, 36)
	require.NoError(t, err)

	waiter := f.Create()
	require.NoError(t, waiter.Begin(ctx))
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	_, err = waiter.ContainerRepository().GetForUpdate(waitCtx, 36)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, holder.Rollback(ctx))

	_, err = waiter.ContainerRepository().GetForUpdate(ctx, 36)
	require.NoError(t, err)
	require.NoError(t, waiter.Rollback(ctx))
}

func TestStore_ChangesAfterCommit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, f := newStore(t)
	feed, err := store.Changes(ctx)
	require.NoError(t, err)

	seedContainer(t, f, 36)

	uow := f.Create()
	require.NoError(t, uow.Begin(ctx))
	c, err := uow.ContainerRepository().GetForUpdate(ctx, 36)
	require.NoError(t, err)
	require.NoError(t, c.Assign(1, 96, seededAt))
	require.NoError(t, uow.ContainerRepository().Update(ctx, c))

	inserted := receive(t, feed)
	assert.Equal(t, change.TableContainers, inserted.Table)
	assert.Equal(t, int64(1), inserted.Version)
	assert.Empty(t, inserted.Before)

	select {
	case rc := <-feed:
		t.Fatalf("change published before commit: %+v", rc)
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, uow.Commit(ctx))

	updated := receive(t, feed)
	assert.Equal(t, change.DedupeKey{Table: change.TableContainers, RowID: 36, Version: 2}, updated.DedupeKey())
	assert.NotEmpty(t, updated.Before)
}

func TestStore_ChangesClosedOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store, _ := newStore(t)

	feed, err := store.Changes(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-feed:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("feed was not closed")
	}
}

func receive(t *testing.T, feed <-chan change.RowChange) change.RowChange {
	t.Helper()
	select {
	case rc := <-feed:
		return rc
	case <-time.After(time.Second):
		t.Fatal("no change received")
	}
	return change.RowChange{}
}
