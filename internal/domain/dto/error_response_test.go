package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNewErrorResponse_TableDriven(t *testing.T) {
	cases := []struct {
		name     string
		message  string
		err      error
		wantText string
		wantJSON map[string]bool // field -> present
	}{
		{
			name: "message only", message: "Stock not found",
			wantText: "Stock not found",
			wantJSON: map[string]bool{"message": true, "error": false, "timestamp": true},
		},
		{
			name: "with cause", message: "Failed to load stock data", err: errors.New("open data.csv: no such file"),
			wantText: "Failed to load stock data: open data.csv: no such file",
			wantJSON: map[string]bool{"message": true, "error": true, "timestamp": true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewErrorResponse(tc.message, tc.err)
			if resp.Error() != tc.wantText {
				t.Fatalf("Error()=%q want %q", resp.Error(), tc.wantText)
			}
			if resp.Timestamp.Location() != time.UTC || time.Since(resp.Timestamp) > time.Second {
				t.Fatalf("timestamp must be a fresh UTC time, got %v", resp.Timestamp)
			}

			b, err := json.Marshal(resp)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var fields map[string]any
			if err := json.Unmarshal(b, &fields); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			for field, present := range tc.wantJSON {
				if _, ok := fields[field]; ok != present {
					t.Fatalf("field %q present=%v want %v in %s", field, ok, present, b)
				}
			}
		})
	}
}

// Handlers attach responses with c.Error, possibly wrapped; the error handler unwraps them.
func TestErrorResponse_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("inventory: %w", NewErrorResponse("Stock not found", nil))

	var resp ErrorResponse
	if !errors.As(wrapped, &resp) || resp.Message != "Stock not found" {
		t.Fatalf("errors.As failed on %v", wrapped)
	}
}

func TestProxyErrorResponse_JSONShape(t *testing.T) {
	b, err := json.Marshal(ProxyErrorResponse{
		Error:   "Failed to fetch data from Alpha Vantage",
		Message: "Request to Alpha Vantage timed out. Please try again later.",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":"Failed to fetch data from Alpha Vantage","message":"Request to Alpha Vantage timed out. Please try again later."}`
	if string(b) != want {
		t.Fatalf("unexpected body %s", b)
	}
}
