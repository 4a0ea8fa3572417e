package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestTimestamp(t *testing.T) {
	assert.False(t, ToTimestamp(time.Time{}).Valid)
	assert.True(t, FromTimestamp(pgtype.Timestamp{}).IsZero())

	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, ts, FromTimestamp(ToTimestamp(ts)))
}

func TestUUID(t *testing.T) {
	assert.False(t, ToUUID(uuid.Nil).Valid)
	assert.Equal(t, uuid.Nil, FromUUID(pgtype.UUID{}))

	id := uuid.New()
	assert.Equal(t, id, FromUUID(ToUUID(id)))
}
