package entities

// Application is a user's request to take part in a campaign.
type Application struct {
	ID         int64
	CampaignID int64
	UserID     int64
	Status     ApplicationStatus
}

type NewApplication struct {
	CampaignID int64
	UserID     int64
	Status     ApplicationStatus
}

type ApplicationPatch struct {
	CampaignID Optional[int64]
	UserID     Optional[int64]
	Status     Optional[ApplicationStatus]
}

func (p ApplicationPatch) IsEmpty() bool {
	return !p.CampaignID.Set && !p.UserID.Set && !p.Status.Set
}

// ApplicationFilter narrows application lists. Both predicates apply
// together when set.
type ApplicationFilter struct {
	CampaignID *int64
	UserID     *int64
}

// Matches reports whether a satisfies every set predicate.
func (f ApplicationFilter) Matches(a Application) bool {
	if f.CampaignID != nil && a.CampaignID != *f.CampaignID {
		return false
	}
	if f.UserID != nil && a.UserID != *f.UserID {
		return false
	}
	return true
}
