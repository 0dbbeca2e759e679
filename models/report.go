package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	CategoryRoadPotholes IssueCategory = "Road / Potholes"
	CategoryGarbage      IssueCategory = "Garbage"
	CategoryStreetlight  IssueCategory = "Streetlight"
	CategoryWaterSupply  IssueCategory = "Water Supply"
	CategoryDrainage     IssueCategory = "Drainage"
	CategoryRoadTraffic  IssueCategory = "Road / Traffic"
	CategoryOther        IssueCategory = "Other"
)

// ValidCategory reports whether s is one of the fixed issue categories.
func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case CategoryRoadPotholes, CategoryGarbage, CategoryStreetlight,
		CategoryWaterSupply, CategoryDrainage, CategoryRoadTraffic, CategoryOther:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In Progress"
	Solved     IssueStatus = "Solved"
)

// Issue represents a civic issue reported by a user. Only status changes
// after creation, and only through the moderation side.
type Issue struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterName  string             `bson:"user" json:"user"`
	ReporterEmail string             `bson:"user_email" json:"userEmail"`
	CreatedBy     primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy"`
	Category      IssueCategory      `bson:"category" json:"category"`
	Description   string             `bson:"description" json:"description"`
	Images        []string           `bson:"images" json:"images"`
	Latitude      float64            `bson:"lat" json:"latitude"`
	Longitude     float64            `bson:"lng" json:"longitude"`
	Address       string             `bson:"address" json:"address"`
	Status        IssueStatus        `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
