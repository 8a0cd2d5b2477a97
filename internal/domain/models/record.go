package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is implemented by every owned record kind (workers, projects,
// investments, news). The generic record store and handlers work through it.
type Record interface {
	RecordID() primitive.ObjectID
	RecordOwner() primitive.ObjectID
	RecordTitle() string
	RecordImage() Attachment
	RecordCreatedAt() time.Time
	// FieldValues returns the editable fields keyed by their form/BSON name.
	FieldValues() map[string]string
}
