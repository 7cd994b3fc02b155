package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSlot(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	slot := NewRedisSlot(rdb, "colmena:", time.Hour)

	mock.ExpectSet("colmena:layout", "v", time.Hour).SetVal("OK")
	mock.ExpectGet("colmena:layout").SetVal("v")
	mock.ExpectDel("colmena:layout").SetVal(1)
	mock.ExpectGet("colmena:layout").RedisNil()

	require.NoError(t, slot.Set(ctx, "layout", "v"))
	v, err := slot.Get(ctx, "layout")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	require.NoError(t, slot.Remove(ctx, "layout"))
	_, err = slot.Get(ctx, "layout")
	assert.ErrorIs(t, err, ErrSlotEmpty)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSlotError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	slot := NewRedisSlot(rdb, "", 0)
	mock.ExpectGet("layout").SetErr(errors.New("down"))

	_, err := slot.Get(context.Background(), "layout")
	assert.EqualError(t, err, "down")
}
