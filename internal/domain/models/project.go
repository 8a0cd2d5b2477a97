package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project categories. DefaultProjectCategory is used when none is submitted.
var ProjectCategories = []string{"Infrastructure", "Agriculture", "Education", "Industry", "Health", "Other"}

const DefaultProjectCategory = "Infrastructure"

type Project struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	TitleCI  string             `bson:"title_ci" json:"title_ci"`
	Body     string             `bson:"body" json:"body"` // sanitized HTML
	Category string             `bson:"category" json:"category"`

	Image Attachment `bson:",inline" json:"image"`

	OwnerID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p Project) RecordID() primitive.ObjectID    { return p.ID }
func (p Project) RecordOwner() primitive.ObjectID { return p.OwnerID }
func (p Project) RecordTitle() string             { return p.Title }
func (p Project) RecordImage() Attachment         { return p.Image }
func (p Project) RecordCreatedAt() time.Time      { return p.CreatedAt }

func (p Project) FieldValues() map[string]string {
	return map[string]string{
		"title":    p.Title,
		"body":     p.Body,
		"category": p.Category,
	}
}
