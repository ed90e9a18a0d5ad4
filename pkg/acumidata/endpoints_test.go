package acumidata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// capture runs one client call against a stub server and returns the
// request the server saw.
type capturedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

func captureRequest(t *testing.T, call func(ctx context.Context, c *Client) error) capturedRequest {
	t.Helper()

	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if err := call(context.Background(), client); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	return captured
}

func TestEndpointPaths(t *testing.T) {
	addr := testAddress()

	tests := []struct {
		name     string
		call     func(ctx context.Context, c *Client) error
		wantPath string
	}{
		{
			name: "valuation estimate",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.ValuationEstimate(ctx, addr)
				return err
			},
			wantPath: "/api/Valuation/estimate",
		},
		{
			name: "qvm simple",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.ValuationQVMSimple(ctx, addr)
				return err
			},
			wantPath: "/api/Valuation/qvmsimple",
		},
		{
			name: "collateral",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.ValuationCollateral(ctx, addr)
				return err
			},
			wantPath: "/api/Valuation/collateral",
		},
		{
			name: "comps advantage",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.CompsAdvantage(ctx, addr)
				return err
			},
			wantPath: "/api/Comps/advantage",
		},
		{
			name: "equity",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.EquityAdvantage(ctx, addr)
				return err
			},
			wantPath: "/api/Equity/advantage",
		},
		{
			name: "monitors",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.MonitorsAdvantage(ctx, addr)
				return err
			},
			wantPath: "/api/Monitors/advantage",
		},
		{
			name: "title",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.TitleAdvantage(ctx, addr)
				return err
			},
			wantPath: "/api/Title/advantage",
		},
		{
			name: "listings default product",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.ListingsByProperty(ctx, addr, "")
				return err
			},
			wantPath: "/api/Listings/advantage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured := captureRequest(t, tt.call)
			if captured.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", captured.Path, tt.wantPath)
			}
		})
	}
}

func TestCompsAdvantage_FullAddressQuery(t *testing.T) {
	captured := captureRequest(t, func(ctx context.Context, c *Client) error {
		_, err := c.CompsAdvantage(ctx, testAddress())
		return err
	})

	for key, want := range map[string]string{
		"streetAddress": "531 NE Beck Rd",
		"city":          "Belfair",
		"state":         "WA",
		"zip":           "98528",
	} {
		if got := captured.Query.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
}

func TestCompsAdvantageRadius(t *testing.T) {
	tests := []struct {
		name       string
		radius     string
		wantRadius string
	}{
		{name: "explicit radius", radius: "1.0", wantRadius: "1.0"},
		{name: "default radius", radius: "", wantRadius: "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured := captureRequest(t, func(ctx context.Context, c *Client) error {
				_, err := c.CompsAdvantageRadius(ctx, testAddress(), tt.radius)
				return err
			})

			// The radius endpoint uses capitalized parameter names.
			if got := captured.Query.Get("Radius"); got != tt.wantRadius {
				t.Errorf("Radius = %q, want %q", got, tt.wantRadius)
			}
			if got := captured.Query.Get("StreetAddress"); got != "531 NE Beck Rd" {
				t.Errorf("StreetAddress = %q, want street address", got)
			}
			if captured.Query.Has("streetAddress") {
				t.Error("lowercase streetAddress must not be sent to the radius endpoint")
			}
		})
	}
}

func TestCompsAdvantagePolygon_OptionalParams(t *testing.T) {
	captured := captureRequest(t, func(ctx context.Context, c *Client) error {
		_, err := c.CompsAdvantagePolygon(ctx, testAddress(), "47.4,-122.8;47.5,-122.7", PolygonOptions{
			LandUse: "SFR",
		})
		return err
	})

	if got := captured.Query.Get("Polygon"); got != "47.4,-122.8;47.5,-122.7" {
		t.Errorf("Polygon = %q, want polygon string", got)
	}
	if got := captured.Query.Get("LandUse"); got != "SFR" {
		t.Errorf("LandUse = %q, want SFR", got)
	}
	if captured.Query.Has("Date") {
		t.Error("unset Date option must not be sent")
	}
	if captured.Query.Has("IncludeBirdseye") {
		t.Error("unset IncludeBirdseye option must not be sent")
	}
}

func TestListingsDeltaZip(t *testing.T) {
	captured := captureRequest(t, func(ctx context.Context, c *Client) error {
		_, err := c.ListingsDeltaZip(ctx, "98528,98526", DeltaOptions{
			StartDate: "2024-01-01",
			Statuses:  "Active,Pending",
		})
		return err
	})

	if captured.Path != "/api/Listings/delta-zip" {
		t.Errorf("Path = %q, want /api/Listings/delta-zip", captured.Path)
	}
	if got := captured.Query.Get("zipCodes"); got != "98528,98526" {
		t.Errorf("zipCodes = %q, want zip list", got)
	}
	if got := captured.Query.Get("startDate"); got != "2024-01-01" {
		t.Errorf("startDate = %q, want 2024-01-01", got)
	}
	if captured.Query.Has("endDate") {
		t.Error("unset endDate must not be sent")
	}
	if got := captured.Query.Get("statuses"); got != "Active,Pending" {
		t.Errorf("statuses = %q, want Active,Pending", got)
	}
}

func TestListingsDeltaFIPS(t *testing.T) {
	captured := captureRequest(t, func(ctx context.Context, c *Client) error {
		_, err := c.ListingsDeltaFIPS(ctx, "53035", DeltaOptions{RefID: "run-7"})
		return err
	})

	if captured.Path != "/api/Listings/delta-fips" {
		t.Errorf("Path = %q, want /api/Listings/delta-fips", captured.Path)
	}
	if got := captured.Query.Get("fipsCode"); got != "53035" {
		t.Errorf("fipsCode = %q, want 53035", got)
	}
	if got := captured.Query.Get("refId"); got != "run-7" {
		t.Errorf("refId = %q, want run-7", got)
	}
}

func TestListingsFeed(t *testing.T) {
	tests := []struct {
		name      string
		opts      FeedOptions
		wantQuery map[string]string
		absent    []string
	}{
		{
			name:      "plain feed",
			opts:      FeedOptions{StartTimestamp: 1700000000},
			wantQuery: map[string]string{"state": "WA", "startTimeStamp": "1700000000"},
			absent:    []string{"pagesize", "transactionId", "extractType", "endTimeStamp"},
		},
		{
			name: "paginated feed",
			opts: FeedOptions{PageSize: 250, TransactionID: 12345, ExtractType: "delta"},
			wantQuery: map[string]string{
				"state":         "WA",
				"pagesize":      "250",
				"transactionId": "12345",
				"extractType":   "delta",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured := captureRequest(t, func(ctx context.Context, c *Client) error {
				_, err := c.ListingsFeed(ctx, "WA", tt.opts)
				return err
			})

			if captured.Path != "/api/Listings/feed" {
				t.Errorf("Path = %q, want /api/Listings/feed", captured.Path)
			}
			for key, want := range tt.wantQuery {
				if got := captured.Query.Get(key); got != want {
					t.Errorf("query %s = %q, want %q", key, got, want)
				}
			}
			for _, key := range tt.absent {
				if captured.Query.Has(key) {
					t.Errorf("query %s must not be sent", key)
				}
			}
		})
	}
}

func TestParcelsDetail_Post(t *testing.T) {
	captured := captureRequest(t, func(ctx context.Context, c *Client) error {
		_, err := c.ParcelsDetail(ctx, testAddress())
		return err
	})

	if captured.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", captured.Method)
	}
	if captured.Path != "/api/Parcels/detail" {
		t.Errorf("Path = %q, want /api/Parcels/detail", captured.Path)
	}

	var body map[string]any
	if err := json.Unmarshal(captured.Body, &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if got := body["streetAddress"]; got != "531 NE Beck Rd" {
		t.Errorf("body streetAddress = %v, want street address", got)
	}
	if got := body["zip"]; got != "98528" {
		t.Errorf("body zip = %v, want 98528", got)
	}
}

func TestParcelsDetail_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	doc, err := client.ParcelsDetail(context.Background(), testAddress())
	if err != nil {
		t.Fatalf("ParcelsDetail() failed: %v", err)
	}
	if doc["message"] != "no content" {
		t.Errorf("doc = %v, want no-content marker", doc)
	}
}
