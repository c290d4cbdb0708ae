package feedback

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FlexBool normalizes the historical isRead mess at the storage
// boundary: legacy write paths stored booleans, the string "false"/"true"
// and occasionally numbers. It decodes all of them and always encodes a
// plain boolean, so application logic only ever branches on a bool.
type FlexBool bool

func (b FlexBool) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(bool(b))
}

func (b *FlexBool) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Boolean:
		*b = FlexBool(rv.Boolean())
	case bsontype.String:
		s := rv.StringValue()
		*b = FlexBool(s == "true" || s == "1")
	case bsontype.Int32:
		*b = FlexBool(rv.Int32() != 0)
	case bsontype.Int64:
		*b = FlexBool(rv.Int64() != 0)
	case bsontype.Double:
		*b = FlexBool(rv.Double() != 0)
	case bsontype.Null, bsontype.Undefined:
		*b = false
	default:
		return fmt.Errorf("cannot decode %s into a read flag", t)
	}
	return nil
}

// Message is one piece of client feedback, loosely linked to a portal
// by id string (application-enforced, not a database relation).
type Message struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PortalID    string             `json:"portalId" bson:"portal_id"`
	ClientName  string             `json:"clientName" bson:"client_name"`
	ClientEmail string             `json:"clientEmail" bson:"client_email"`
	Message     string             `json:"message" bson:"message"`
	IsRead      FlexBool           `json:"isRead" bson:"is_read"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	ReadAt      *time.Time         `json:"readAt,omitempty" bson:"read_at,omitempty"`
}

// InboxGroup is one per-portal conversation in the agency inbox.
type InboxGroup struct {
	PortalID    string    `json:"portalId"`
	PortalName  string    `json:"portalName"`
	Slug        string    `json:"slug"`
	UnreadCount int       `json:"unreadCount"`
	LatestAt    time.Time `json:"latestAt"`
	Messages    []Message `json:"messages"`
}
