package entities

import (
	"encoding/json"
	"testing"
)

type patchBody struct {
	Name  Optional[string] `json:"name"`
	Count Optional[int]    `json:"count"`
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var body patchBody
	if err := json.Unmarshal([]byte(`{"name":"spring","count":null}`), &body); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if v, ok := body.Name.Get(); !ok || v != "spring" {
		t.Errorf("Expected name spring, got %q (applied=%v)", v, ok)
	}

	if !body.Count.Set || !body.Count.Null {
		t.Errorf("Expected count to be set to null, got %+v", body.Count)
	}
	if _, ok := body.Count.Get(); ok {
		t.Error("Expected null count not to be applied")
	}
}

func TestOptional_Absent(t *testing.T) {
	var body patchBody
	if err := json.Unmarshal([]byte(`{}`), &body); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if body.Name.Set || body.Count.Set {
		t.Errorf("Expected absent fields to stay unset, got %+v", body)
	}
}

func TestCampaignPatch_IsEmpty(t *testing.T) {
	if !(CampaignPatch{}).IsEmpty() {
		t.Error("Expected zero patch to be empty")
	}

	nullReqs := CampaignPatch{Requirements: Optional[[]Requirement]{Set: true, Null: true}}
	if !nullReqs.IsEmpty() {
		t.Error("Expected null requirements to leave the patch empty")
	}

	replace := CampaignPatch{Requirements: Some([]Requirement{})}
	if replace.IsEmpty() {
		t.Error("Expected an empty requirements list to count as a replacement")
	}
}

func TestApplicationFilter_Matches(t *testing.T) {
	campaignID, userID := int64(1), int64(5)
	f := ApplicationFilter{CampaignID: &campaignID, UserID: &userID}

	if !f.Matches(Application{CampaignID: 1, UserID: 5}) {
		t.Error("Expected (1,5) to match")
	}
	if f.Matches(Application{CampaignID: 1, UserID: 6}) {
		t.Error("Expected (1,6) not to match")
	}
	if !(ApplicationFilter{}).Matches(Application{CampaignID: 9, UserID: 9}) {
		t.Error("Expected empty filter to match everything")
	}
}
