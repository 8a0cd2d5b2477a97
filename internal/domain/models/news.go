package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// News items carry no image.
type News struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`
	Body    string             `bson:"body" json:"body"` // sanitized HTML

	OwnerID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (n News) RecordID() primitive.ObjectID    { return n.ID }
func (n News) RecordOwner() primitive.ObjectID { return n.OwnerID }
func (n News) RecordTitle() string             { return n.Title }
func (n News) RecordImage() Attachment         { return Attachment{} }
func (n News) RecordCreatedAt() time.Time      { return n.CreatedAt }

func (n News) FieldValues() map[string]string {
	return map[string]string{
		"title": n.Title,
		"body":  n.Body,
	}
}
