package retell_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leadline-hq/leadline/internal/retell"
)

func TestCreatePhoneCall_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{
			"call_id":     "call_123",
			"call_status": "registered",
		})
	}))
	defer srv.Close()

	c := retell.New(srv.URL, "key-1", "agent-1", "+15550001111")
	call, err := c.CreatePhoneCall(context.Background(), "+11234567890", retell.Metadata{
		LeadSource: "landing_page",
		Variant:    "a",
		VisitorID:  "v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if call.CallID != "call_123" || call.CallStatus != "registered" {
		t.Errorf("unexpected response: %+v", call)
	}
	if gotPath != "/v2/create-phone-call" {
		t.Errorf("path %q", gotPath)
	}
	if gotAuth != "Bearer key-1" {
		t.Errorf("auth header %q", gotAuth)
	}
	if gotBody["agent_id"] != "agent-1" {
		t.Errorf("agent_id %v", gotBody["agent_id"])
	}
	if gotBody["to_number"] != "+11234567890" {
		t.Errorf("to_number %v", gotBody["to_number"])
	}
	if gotBody["from_number"] != "+15550001111" {
		t.Errorf("from_number %v", gotBody["from_number"])
	}
	meta, _ := gotBody["metadata"].(map[string]any)
	if meta["lead_source"] != "landing_page" {
		t.Errorf("metadata %v", gotBody["metadata"])
	}
}

func TestCreatePhoneCall_NullFromNumber(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"call_id": "call_1"})
	}))
	defer srv.Close()

	c := retell.New(srv.URL, "key-1", "agent-1", "")
	if _, err := c.CreatePhoneCall(context.Background(), "+11234567890", retell.Metadata{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Field is present and null, not omitted: the provider picks its
	// configured number.
	v, ok := gotBody["from_number"]
	if !ok {
		t.Fatal("from_number missing from payload")
	}
	if v != nil {
		t.Errorf("from_number = %v, want null", v)
	}
}

func TestCreatePhoneCall_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"message": "insufficient balance"})
	}))
	defer srv.Close()

	c := retell.New(srv.URL, "key-1", "agent-1", "")
	_, err := c.CreatePhoneCall(context.Background(), "+11234567890", retell.Metadata{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "insufficient balance") {
		t.Errorf("error %q missing provider message", err.Error())
	}
}

func TestCreatePhoneCall_NotConfigured(t *testing.T) {
	cases := []struct {
		name   string
		client *retell.Client
	}{
		{"no key", retell.New("", "", "agent-1", "")},
		{"no agent", retell.New("", "key-1", "", "")},
		{"nothing", retell.New("", "", "", "")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.client.Configured() {
				t.Error("expected not configured")
			}
			_, err := tc.client.CreatePhoneCall(context.Background(), "+11234567890", retell.Metadata{})
			if !errors.Is(err, retell.ErrNotConfigured) {
				t.Errorf("got %v, want ErrNotConfigured", err)
			}
		})
	}
}
