package dtos

import (
	"fmt"

	"campaign-lab/polystore/internal/models/entities"
)

type UserCreateRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r UserCreateRequest) ToEntity() entities.NewUser {
	return entities.NewUser{Username: r.Username, Email: r.Email, Password: r.Password}
}

// UserUpdateRequest fields may be left out; sending null is rejected.
type UserUpdateRequest struct {
	Username entities.Optional[string] `json:"username" validate:"omitempty,min=1"`
	Email    entities.Optional[string] `json:"email" validate:"omitempty,email"`
	Password entities.Optional[string] `json:"password" validate:"omitempty,min=1"`
}

func (r UserUpdateRequest) ToPatch() (entities.UserPatch, error) {
	if err := rejectNull(map[string]bool{
		"username": r.Username.Null,
		"email":    r.Email.Null,
		"password": r.Password.Null,
	}); err != nil {
		return entities.UserPatch{}, err
	}
	return entities.UserPatch{Username: r.Username, Email: r.Email, Password: r.Password}, nil
}

type OrganizationCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r OrganizationCreateRequest) ToEntity() entities.NewOrganization {
	return entities.NewOrganization{Name: r.Name}
}

type OrganizationUpdateRequest struct {
	Name entities.Optional[string] `json:"name" validate:"omitempty,min=1"`
}

func (r OrganizationUpdateRequest) ToPatch() (entities.OrganizationPatch, error) {
	if err := rejectNull(map[string]bool{"name": r.Name.Null}); err != nil {
		return entities.OrganizationPatch{}, err
	}
	return entities.OrganizationPatch{Name: r.Name}, nil
}

type RequirementPayload struct {
	MediaType entities.MediaType `json:"media_type" validate:"required,oneof=photo video"`
	Count     int                `json:"count" validate:"gte=0"`
}

func requirementEntities(in []RequirementPayload) []entities.Requirement {
	out := make([]entities.Requirement, 0, len(in))
	for _, r := range in {
		out = append(out, entities.Requirement{MediaType: r.MediaType, Count: r.Count})
	}
	return out
}

type CampaignCreateRequest struct {
	OrganizerID  int64                `json:"organizer_id" validate:"required"`
	Name         string               `json:"name" validate:"required"`
	Requirements []RequirementPayload `json:"requirements" validate:"dive"`
}

func (r CampaignCreateRequest) ToEntity() entities.NewCampaign {
	return entities.NewCampaign{
		OrganizerID:  r.OrganizerID,
		Name:         r.Name,
		Requirements: requirementEntities(r.Requirements),
	}
}

// CampaignUpdateRequest replaces every requirement when requirements is
// present. A null requirements list counts as absent.
type CampaignUpdateRequest struct {
	OrganizerID  entities.Optional[int64]                `json:"organizer_id" validate:"omitempty,gt=0"`
	Name         entities.Optional[string]               `json:"name" validate:"omitempty,min=1"`
	Requirements entities.Optional[[]RequirementPayload] `json:"requirements" validate:"omitempty,dive"`
}

func (r CampaignUpdateRequest) ToPatch() (entities.CampaignPatch, error) {
	if err := rejectNull(map[string]bool{
		"organizer_id": r.OrganizerID.Null,
		"name":         r.Name.Null,
	}); err != nil {
		return entities.CampaignPatch{}, err
	}

	patch := entities.CampaignPatch{OrganizerID: r.OrganizerID, Name: r.Name}
	if reqs, ok := r.Requirements.Get(); ok {
		patch.Requirements = entities.Some(requirementEntities(reqs))
	}
	return patch, nil
}

type ApplicationCreateRequest struct {
	CampaignID int64                      `json:"campaign_id" validate:"required"`
	UserID     int64                      `json:"user_id" validate:"required"`
	Status     entities.ApplicationStatus `json:"status" validate:"required,oneof=pending accept declined"`
}

func (r ApplicationCreateRequest) ToEntity() entities.NewApplication {
	return entities.NewApplication{CampaignID: r.CampaignID, UserID: r.UserID, Status: r.Status}
}

type ApplicationUpdateRequest struct {
	CampaignID entities.Optional[int64]                      `json:"campaign_id" validate:"omitempty,gt=0"`
	UserID     entities.Optional[int64]                      `json:"user_id" validate:"omitempty,gt=0"`
	Status     entities.Optional[entities.ApplicationStatus] `json:"status" validate:"omitempty,oneof=pending accept declined"`
}

func (r ApplicationUpdateRequest) ToPatch() (entities.ApplicationPatch, error) {
	if err := rejectNull(map[string]bool{
		"campaign_id": r.CampaignID.Null,
		"user_id":     r.UserID.Null,
		"status":      r.Status.Null,
	}); err != nil {
		return entities.ApplicationPatch{}, err
	}
	return entities.ApplicationPatch{CampaignID: r.CampaignID, UserID: r.UserID, Status: r.Status}, nil
}

// rejectNull fails on the first field (in name order) sent as JSON null.
func rejectNull(nulls map[string]bool) error {
	var first string
	for field, null := range nulls {
		if null && (first == "" || field < first) {
			first = field
		}
	}
	if first != "" {
		return fmt.Errorf("invalid request: %s may not be null", first)
	}
	return nil
}
