package gorm

import "campaign-lab/polystore/internal/models/entities"

type Organization struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`

	// Relationships
	Campaigns []Campaign `gorm:"foreignKey:OrganizerID"`
}

// TableName specifies the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

func (o Organization) ToEntity() *entities.Organization {
	return &entities.Organization{ID: o.ID, Name: o.Name}
}
