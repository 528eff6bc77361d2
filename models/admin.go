package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // always "admin"
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
