package entities

// Organization runs campaigns.
type Organization struct {
	ID   int64
	Name string
}

type NewOrganization struct {
	Name string
}

type OrganizationPatch struct {
	Name Optional[string]
}

func (p OrganizationPatch) IsEmpty() bool {
	return !p.Name.Set
}
