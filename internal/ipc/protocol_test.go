package ipc

import "testing"

func TestParseRequestRoundTrip(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"GET_TREE"}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Command != CommandGetTree {
		t.Fatalf("expected CommandGetTree, got %v", req.Command)
	}
}

func TestParseRequestInvalidJSON(t *testing.T) {
	if _, err := ParseRequest([]byte(`not json`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestNewOKResponseMarshalsData(t *testing.T) {
	resp, err := NewOKResponse(MonitorsData{Monitors: []MonitorInfo{{ID: 1, Name: "eDP-1"}}})
	if err != nil {
		t.Fatalf("NewOKResponse: %v", err)
	}
	if resp.Status != "OK" {
		t.Fatalf("expected status OK, got %q", resp.Status)
	}
	data, err := resp.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty marshaled response")
	}
}

func TestNewErrorResponseSetsStatus(t *testing.T) {
	resp := NewErrorResponse("boom")
	if resp.Status != "ERROR" || resp.Error != "boom" {
		t.Fatalf("expected ERROR status with message, got %+v", resp)
	}
}
