package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Worker positions. DefaultWorkerPosition is used when none is submitted.
var WorkerPositions = []string{"Worker", "Driver", "Director", "Security", "Cashier", "Other"}

const DefaultWorkerPosition = "Worker"

type Worker struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
	EmailCI  string             `bson:"email_ci,omitempty" json:"email_ci,omitempty"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Position string             `bson:"position" json:"position"`
	Salary   string             `bson:"salary,omitempty" json:"salary,omitempty"`

	Image Attachment `bson:",inline" json:"image"`

	OwnerID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (w Worker) RecordID() primitive.ObjectID    { return w.ID }
func (w Worker) RecordOwner() primitive.ObjectID { return w.OwnerID }
func (w Worker) RecordTitle() string             { return w.Name }
func (w Worker) RecordImage() Attachment         { return w.Image }
func (w Worker) RecordCreatedAt() time.Time      { return w.CreatedAt }

func (w Worker) FieldValues() map[string]string {
	return map[string]string{
		"name":     w.Name,
		"email":    w.Email,
		"phone":    w.Phone,
		"position": w.Position,
		"salary":   w.Salary,
	}
}
