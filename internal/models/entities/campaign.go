package entities

// Requirement asks for Count submissions of one media type.
type Requirement struct {
	MediaType MediaType
	Count     int
}

// Campaign is owned by an organization and carries its requirements inline.
type Campaign struct {
	ID           int64
	OrganizerID  int64
	Name         string
	Requirements []Requirement
}

type NewCampaign struct {
	OrganizerID  int64
	Name         string
	Requirements []Requirement
}

// CampaignPatch updates a campaign. A present Requirements list replaces
// every stored requirement of the campaign.
type CampaignPatch struct {
	OrganizerID  Optional[int64]
	Name         Optional[string]
	Requirements Optional[[]Requirement]
}

// HasFields reports whether any campaign column (not requirements) is patched.
func (p CampaignPatch) HasFields() bool {
	return p.OrganizerID.Set || p.Name.Set
}

func (p CampaignPatch) IsEmpty() bool {
	_, replace := p.Requirements.Get()
	return !p.HasFields() && !replace
}

type CampaignFilter struct {
	OrganizerID *int64
}
