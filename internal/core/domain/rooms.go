package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RoomCount is a room cardinality as carried by the listing feed. The feed
// stores counts as decimal strings ("3") while locally written documents use
// integers, so decoding accepts both. Strings that are not a whole number
// decode to 0.
type RoomCount int

// ParseRoomCount reads a count from its feed representation.
func ParseRoomCount(s string) RoomCount {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return RoomCount(n)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (c *RoomCount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*c = ParseRoomCount(raw.StringValue())
	case bsontype.Int32:
		*c = RoomCount(raw.Int32())
	case bsontype.Int64:
		*c = RoomCount(raw.Int64())
	case bsontype.Double:
		*c = RoomCount(math.Trunc(raw.Double()))
	case bsontype.Null, bsontype.Undefined:
		*c = 0
	default:
		return fmt.Errorf("room count: unsupported bson type %s", t)
	}
	return nil
}

// UnmarshalJSON accepts a number or a numeric string.
func (c *RoomCount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = ParseRoomCount(s)
		return nil
	}
	var f *float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("room count: %w", err)
	}
	if f == nil {
		*c = 0
		return nil
	}
	*c = RoomCount(math.Trunc(*f))
	return nil
}
