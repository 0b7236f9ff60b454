package gorm

import "campaign-lab/polystore/internal/models/entities"

type Campaign struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	OrganizerID int64  `gorm:"column:organizer_id;not null;index"`
	Name        string `gorm:"column:name;not null"`

	// Relationships
	Requirements []CampaignRequirement `gorm:"foreignKey:CampaignID"`
	Applications []CampaignApplication `gorm:"foreignKey:CampaignID"`
}

// TableName specifies the table name for GORM
func (Campaign) TableName() string {
	return "campaigns"
}

type CampaignRequirement struct {
	ID         int64              `gorm:"column:id;primaryKey;autoIncrement"`
	CampaignID int64              `gorm:"column:campaign_id;not null;index"`
	MediaType  entities.MediaType `gorm:"column:media_type;type:varchar(16);not null"`
	Count      int                `gorm:"column:count;not null"`
}

// TableName specifies the table name for GORM
func (CampaignRequirement) TableName() string {
	return "campaign_requirements"
}

// NewRequirementRows builds unsaved requirement rows for a campaign.
func NewRequirementRows(campaignID int64, reqs []entities.Requirement) []CampaignRequirement {
	rows := make([]CampaignRequirement, 0, len(reqs))
	for _, req := range reqs {
		rows = append(rows, CampaignRequirement{
			CampaignID: campaignID,
			MediaType:  req.MediaType,
			Count:      req.Count,
		})
	}
	return rows
}

// ToEntity expects Requirements to be preloaded.
func (c Campaign) ToEntity() *entities.Campaign {
	reqs := make([]entities.Requirement, 0, len(c.Requirements))
	for _, r := range c.Requirements {
		reqs = append(reqs, entities.Requirement{MediaType: r.MediaType, Count: r.Count})
	}
	return &entities.Campaign{
		ID:           c.ID,
		OrganizerID:  c.OrganizerID,
		Name:         c.Name,
		Requirements: reqs,
	}
}
