package seed

import "campaign-lab/polystore/internal/models/entities"

// CampaignSeed refers to its organizer by position in Dataset.Organizations.
type CampaignSeed struct {
	Organizer    int
	Name         string
	Requirements []entities.Requirement
}

// ApplicationSeed refers to its campaign and user by position.
type ApplicationSeed struct {
	Campaign int
	User     int
	Status   entities.ApplicationStatus
}

type Dataset struct {
	Users         []entities.NewUser
	Organizations []entities.NewOrganization
	Campaigns     []CampaignSeed
	Applications  []ApplicationSeed
}

// Default is the demo data loaded into a fresh backend.
func Default() Dataset {
	return Dataset{
		Users: []entities.NewUser{
			{Username: "alice", Email: "alice@example.com", Password: "alice-password"},
			{Username: "bob", Email: "bob@example.com", Password: "bob-password"},
			{Username: "carol", Email: "carol@example.com", Password: "carol-password"},
		},
		Organizations: []entities.NewOrganization{
			{Name: "Acme Studios"},
			{Name: "Northwind Media"},
		},
		Campaigns: []CampaignSeed{
			{
				Organizer: 0,
				Name:      "Spring Launch",
				Requirements: []entities.Requirement{
					{MediaType: entities.MediaTypePhoto, Count: 3},
					{MediaType: entities.MediaTypeVideo, Count: 1},
				},
			},
			{
				Organizer: 1,
				Name:      "Product Teaser",
				Requirements: []entities.Requirement{
					{MediaType: entities.MediaTypeVideo, Count: 2},
				},
			},
		},
		Applications: []ApplicationSeed{
			{Campaign: 0, User: 0, Status: entities.StatusPending},
			{Campaign: 0, User: 1, Status: entities.StatusAccept},
			{Campaign: 1, User: 0, Status: entities.StatusDeclined},
		},
	}
}
