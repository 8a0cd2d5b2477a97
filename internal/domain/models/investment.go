package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Investment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	TitleCI  string             `bson:"title_ci" json:"title_ci"`
	Body     string             `bson:"body,omitempty" json:"body,omitempty"` // sanitized HTML
	Amount   string             `bson:"amount,omitempty" json:"amount,omitempty"`
	Investor string             `bson:"investor,omitempty" json:"investor,omitempty"`

	Image Attachment `bson:",inline" json:"image"`

	OwnerID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (i Investment) RecordID() primitive.ObjectID    { return i.ID }
func (i Investment) RecordOwner() primitive.ObjectID { return i.OwnerID }
func (i Investment) RecordTitle() string             { return i.Title }
func (i Investment) RecordImage() Attachment         { return i.Image }
func (i Investment) RecordCreatedAt() time.Time      { return i.CreatedAt }

func (i Investment) FieldValues() map[string]string {
	return map[string]string{
		"title":    i.Title,
		"body":     i.Body,
		"amount":   i.Amount,
		"investor": i.Investor,
	}
}
