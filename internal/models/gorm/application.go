package gorm

import "campaign-lab/polystore/internal/models/entities"

type CampaignApplication struct {
	ID         int64                      `gorm:"column:id;primaryKey;autoIncrement"`
	CampaignID int64                      `gorm:"column:campaign_id;not null;index"`
	UserID     int64                      `gorm:"column:user_id;not null;index"`
	Status     entities.ApplicationStatus `gorm:"column:status;type:varchar(16);not null"`
}

// TableName specifies the table name for GORM
func (CampaignApplication) TableName() string {
	return "campaign_applications"
}

func (a CampaignApplication) ToEntity() *entities.Application {
	return &entities.Application{
		ID:         a.ID,
		CampaignID: a.CampaignID,
		UserID:     a.UserID,
		Status:     a.Status,
	}
}
