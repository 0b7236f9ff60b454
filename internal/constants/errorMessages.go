package constants

const (
	MsgUserCreateFailed         = "Failed to create user"
	MsgOrganizationCreateFailed = "Failed to create organization"
	MsgCampaignCreateFailed     = "Failed to create campaign"
	MsgApplicationCreateFailed  = "Failed to create application"

	MsgUserNotFound         = "User not found"
	MsgOrganizationNotFound = "Organization not found"
	MsgCampaignNotFound     = "Campaign not found"
	MsgApplicationNotFound  = "Application not found"

	MsgUnknownBackend  = "Unknown database type"
	MsgInvalidBody     = "Invalid request body"
	MsgInvalidID       = "Invalid id"
	MsgInvalidQuery    = "Invalid query parameter"
	MsgTooManyRequests = "Too many requests"
)
