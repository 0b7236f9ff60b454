package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campaign-lab/polystore/internal/models/dtos"
)

func TestRespondError_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, time.Now(), nil, "User not found", http.StatusNotFound)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	var body dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Status != "error" || body.Message != "User not found" || body.ResponseTime == "" {
		t.Errorf("unexpected envelope %+v", body)
	}
}

func TestRespondError_ErrorTextWins(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, time.Now(), errors.New("connection refused"), "fallback")

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	var body dtos.APIResponse
	json.NewDecoder(rr.Body).Decode(&body)
	if body.Message != "connection refused" {
		t.Errorf("expected error text, got %q", body.Message)
	}
}

func TestRespondJSON_Bare(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondJSON(rr, []string{"a", "b"}, http.StatusCreated)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	var got []string
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil || len(got) != 2 {
		t.Errorf("unexpected body %v, %v", got, err)
	}
}
