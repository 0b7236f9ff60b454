package constants

// Bigtable layout. Every table uses a single column family.
const (
	BigtableFamily = "d"

	TableUsers                  = "users"
	TableOrganizations          = "organizations"
	TableCampaigns              = "campaigns"
	TableCampaignRequirements   = "campaign_requirements"
	TableCampaignApplications   = "campaign_applications"
	TableSequences              = "sequence_id"
	TableCampaignsByOrganizer   = "campaigns_by_organizer"
	TableRequirementsByCampaign = "requirements_by_campaign"
	TableApplicationsByCampaign = "applications_by_campaign"
	TableApplicationsByUser     = "applications_by_user"

	// SequenceRowKey is the key of the single row holding every id counter.
	SequenceRowKey = "0"
)

// Counter cells of the sequence row.
const (
	CounterUser         = "user_sequence"
	CounterOrganization = "organization_sequence"
	CounterCampaign     = "campaign_sequence"
	CounterRequirement  = "requirements_sequence"
	CounterApplication  = "application_sequence"
)

var BigtableTables = []string{
	TableUsers,
	TableOrganizations,
	TableCampaigns,
	TableCampaignRequirements,
	TableCampaignApplications,
	TableSequences,
	TableCampaignsByOrganizer,
	TableRequirementsByCampaign,
	TableApplicationsByCampaign,
	TableApplicationsByUser,
}

var SequenceCounters = []string{
	CounterUser,
	CounterOrganization,
	CounterCampaign,
	CounterRequirement,
	CounterApplication,
}
