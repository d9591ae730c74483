package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"nome": "Pátio Norte"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type %q", ct)
	}

	var envelope struct {
		Data  map[string]string `json:"data"`
		Error any               `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("corpo: %v", err)
	}
	if envelope.Data["nome"] != "Pátio Norte" {
		t.Errorf("data: %+v", envelope.Data)
	}
	if envelope.Error != nil {
		t.Errorf("error deveria ser null: %v", envelope.Error)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusConflict, "DUPLICADA", "possível vistoria duplicada", map[string]string{"placa": "ABC1234"})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d", rec.Code)
	}

	var envelope struct {
		Data  any `json:"data"`
		Error *struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("corpo: %v", err)
	}
	if envelope.Data != nil {
		t.Errorf("data deveria ser null: %v", envelope.Data)
	}
	if envelope.Error == nil || envelope.Error.Code != "DUPLICADA" {
		t.Fatalf("error: %+v", envelope.Error)
	}
	if envelope.Error.Details["placa"] != "ABC1234" {
		t.Errorf("details: %+v", envelope.Error.Details)
	}
}
