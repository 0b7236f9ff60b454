package gorm

import "campaign-lab/polystore/internal/models/entities"

type User struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Username string `gorm:"column:username;not null"`
	Email    string `gorm:"column:email;not null"`
	Password string `gorm:"column:password;not null"`

	// Relationships
	Applications []CampaignApplication `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u User) ToEntity() *entities.User {
	return &entities.User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
	}
}
