package datastore

import "time"

// CommunityIdea is an idea shared on the community forum. Rows are never
// updated after they are created.
type CommunityIdea struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Author    string    `gorm:"column:user_name;size:255;not null"`
	Idea      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName keeps the table name used by earlier releases.
func (CommunityIdea) TableName() string { return "community_ideas" }

// WasteData is the reference table of waste types and handling ideas.
type WasteData struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	WasteType     string `gorm:"size:64;index"`
	Description   string `gorm:"type:text"`
	UpcyclingIdea string `gorm:"type:text"`
}

func (WasteData) TableName() string { return "waste_data" }
