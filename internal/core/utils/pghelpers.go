package utils

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToTimestamp converts a domain time to a pgtype.Timestamp.
// The zero time is stored as NULL.
func ToTimestamp(t time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{
		Time:  t,
		Valid: !t.IsZero(),
	}
}

// FromTimestamp converts a pgtype.Timestamp to a domain time.
// A NULL value is converted to the zero time.
func FromTimestamp(t pgtype.Timestamp) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// ToUUID converts a domain ID to a pgtype.UUID. uuid.Nil is stored as NULL.
func ToUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{
		Bytes: id,
		Valid: id != uuid.Nil,
	}
}

// FromUUID converts a pgtype.UUID to a domain ID.
// A NULL value is converted to uuid.Nil.
func FromUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return id.Bytes
}
