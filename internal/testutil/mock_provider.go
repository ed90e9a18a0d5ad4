// Package testutil provides testing utilities for the propdash pipeline.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior of one mock provider endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockProvider is a configurable stand-in for the Acumidata API.
type MockProvider struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requestCount  int
	requestsByURL map[string]int
	lastRequest   *http.Request
}

// NewMockProvider creates a mock provider server.
func NewMockProvider() *MockProvider {
	mock := &MockProvider{
		handlers:      make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requestsByURL: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.requestsByURL[r.URL.Path]++
		mock.lastRequest = r.Clone(r.Context())
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockProvider) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockProvider) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.requestsByURL = make(map[string]int)
	m.lastRequest = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockProvider) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockProvider) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// RequestCount returns the total number of requests served.
func (m *MockProvider) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// RequestCountFor returns how many requests hit one path.
func (m *MockProvider) RequestCountFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestsByURL[path]
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *http.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequest
}

// defaultHandler answers anything unconfigured with an empty JSON object.
func (m *MockProvider) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{}`))
}

// OKResponse creates a 200 response with a JSON body.
func OKResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
	}
}

// SimpleReportBody is a realistic Simple report payload.
const SimpleReportBody = `{
	"prediction": {
		"predictedPrice": 425000,
		"priceLow": 400000,
		"priceHigh": 450000,
		"confidence": 0.92
	},
	"subjectParcel": {
		"structures": [
			{"bedrooms": 3, "bathrooms": 2, "gla": 1850}
		]
	},
	"metadata": {
		"reportPDFLink": "https://reports.example.com/simple.pdf"
	}
}`

// RangedReportBody is a realistic Ranged report payload.
const RangedReportBody = `{
	"prediction": {
		"priceLow": 400000,
		"priceHigh": 450000,
		"confidence": 0.9,
		"error": 0.06
	},
	"subjectParcel": {
		"structures": [
			{"bedrooms": 3, "bathrooms": 2, "gla": 1850}
		]
	},
	"metadata": {
		"reportPDFLink": "https://reports.example.com/ranged.pdf"
	}
}`

// FullReportBody is a realistic Full report payload.
const FullReportBody = `{
	"searchData": {
		"beds": 4,
		"baths": 2.5,
		"yearBuilt": 1987,
		"size": 2400,
		"lotSize": 9600
	},
	"analysis": {
		"houseWorth": {
			"valuations": {
				"current": {"value": 515000, "confidence": 0.88, "variance": 0.04}
			}
		}
	},
	"metadata": {
		"reportPDFLink": "https://reports.example.com/full.pdf"
	}
}`
