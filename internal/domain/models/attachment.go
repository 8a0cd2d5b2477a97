package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is the image carried by a record. Exactly one of Data (base64,
// stored inline) or Ref (GridFS file id) is set for a stored attachment.
type Attachment struct {
	Data        string              `bson:"image_data,omitempty" json:"-"`
	Ref         *primitive.ObjectID `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	ContentType string              `bson:"image_content_type,omitempty" json:"image_content_type,omitempty"`
	Size        int64               `bson:"image_size,omitempty" json:"image_size,omitempty"`
}

// IsZero reports whether no attachment is stored.
func (a Attachment) IsZero() bool {
	return a.Data == "" && a.Ref == nil
}

// SetFields returns the document fields to $set for this attachment and the
// fields to $unset so that a previous attachment of the other backend does not linger.
func (a Attachment) SetFields() (set bson.M, unset bson.M) {
	set = bson.M{
		"image_content_type": a.ContentType,
		"image_size":         a.Size,
	}
	unset = bson.M{}
	if a.Data != "" {
		set["image_data"] = a.Data
		unset["image_ref"] = ""
	} else {
		set["image_ref"] = a.Ref
		unset["image_data"] = ""
	}
	return set, unset
}
