package dtos

import "campaign-lab/polystore/internal/models/entities"

// APIResponse is the envelope of error responses.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
}

// UserResponse never carries the password.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type OrganizationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RequirementResponse struct {
	MediaType entities.MediaType `json:"media_type"`
	Count     int                `json:"count"`
}

type CampaignResponse struct {
	ID           int64                 `json:"id"`
	OrganizerID  int64                 `json:"organizer_id"`
	Name         string                `json:"name"`
	Requirements []RequirementResponse `json:"requirements"`
}

type ApplicationResponse struct {
	ID         int64                      `json:"id"`
	CampaignID int64                      `json:"campaign_id"`
	UserID     int64                      `json:"user_id"`
	Status     entities.ApplicationStatus `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(u entities.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func NewOrganizationResponse(o entities.Organization) OrganizationResponse {
	return OrganizationResponse{ID: o.ID, Name: o.Name}
}

func NewCampaignResponse(c entities.Campaign) CampaignResponse {
	reqs := make([]RequirementResponse, 0, len(c.Requirements))
	for _, r := range c.Requirements {
		reqs = append(reqs, RequirementResponse{MediaType: r.MediaType, Count: r.Count})
	}
	return CampaignResponse{ID: c.ID, OrganizerID: c.OrganizerID, Name: c.Name, Requirements: reqs}
}

func NewApplicationResponse(a entities.Application) ApplicationResponse {
	return ApplicationResponse{ID: a.ID, CampaignID: a.CampaignID, UserID: a.UserID, Status: a.Status}
}

// MapSlice converts a list of entities with fn. The result is never nil so it
// encodes as [].
func MapSlice[E, R any](in []E, fn func(E) R) []R {
	out := make([]R, 0, len(in))
	for _, e := range in {
		out = append(out, fn(e))
	}
	return out
}
