package uuid

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// UUID identifies a stored image. It is persisted as BINARY(16) and
// rendered as its canonical string form in JSON.
type UUID uuid.UUID

// Nil is the zero UUID.
var Nil = UUID(uuid.Nil)

// NewUUID creates a new random UUID.
func NewUUID() UUID {
	return UUID(uuid.New())
}

// Parse accepts the canonical textual form of a UUID.
func Parse(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return UUID(id), nil
}

// MustParse is Parse for tests and constants; it panics on bad input.
func MustParse(s string) UUID {
	return UUID(uuid.MustParse(s))
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (u UUID) IsNil() bool {
	return u == Nil
}

func (u *UUID) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		id, err := uuid.FromBytes(v)
		if err != nil {
			return err
		}
		*u = UUID(id)
		return nil
	case string:
		id, err := uuid.FromBytes([]byte(v))
		if err != nil {
			return err
		}
		*u = UUID(id)
		return nil
	default:
		return fmt.Errorf("UUID.Scan: expected []byte, got %T", src)
	}
}

func (u UUID) Value() (driver.Value, error) {
	return uuid.UUID(u).MarshalBinary()
}

func (u UUID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(u).String()), nil
}

func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*u = UUID(parsed)
	return nil
}
