package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a document in the products collection. Price stays a
// string: it is pattern-validated but never parsed into a numeric type.
type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       string             `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	File        string             `json:"file" bson:"file"` // relative path, e.g. "uploads/abc.png"
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ProductUpdate carries the replacement field values for an update. File is
// empty when the caller supplied no new image.
type ProductUpdate struct {
	Name        string
	Price       string
	Description string
	File        string
}
