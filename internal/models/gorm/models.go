package gorm

// All lists every table model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Organization{},
		&Campaign{},
		&CampaignRequirement{},
		&CampaignApplication{},
	}
}
