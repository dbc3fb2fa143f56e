package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	begun []*fakeTx
	opts  []*sql.TxOptions
	err   error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if b.err != nil {
		return nil, b.err
	}
	tx := &fakeTx{}
	b.begun = append(b.begun, tx)
	b.opts = append(b.opts, opts)
	return tx, nil
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, beginner.begun, 1)
	assert.True(t, beginner.begun[0].committed)
	assert.False(t, beginner.begun[0].rolledBack)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	require.Len(t, beginner.begun, 1)
	assert.True(t, beginner.begun[0].rolledBack)
	assert.False(t, beginner.begun[0].committed)
}

func TestTransactionManager_ReadOnlySnapshot(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	err := m.DoReadOnly(context.Background(), func(context.Context) error { return nil })

	require.NoError(t, err)
	require.Len(t, beginner.opts, 1)
	assert.True(t, beginner.opts[0].ReadOnly)
	assert.Equal(t, sql.LevelRepeatableRead, beginner.opts[0].Isolation)
	assert.True(t, beginner.begun[0].committed)
}

func TestTransactionManager_NestedCallReusesTransaction(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoReadOnly(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, beginner.begun, 1)
}

func TestTransactionManager_BeginError(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{err: errors.New("no connection")})

	err := m.Do(context.Background(), func(context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrBeginTx)
}
