// Package catalog describes every provider endpoint the dashboard's API
// playground can exercise. The catalog is static; it exists so the surface
// can render endpoint pickers and choose the right input form per endpoint.
package catalog

import (
	"net/http"

	"github.com/acumidata/propdash/pkg/acumidata"
)

// Category groups endpoints the way the dashboard presents them.
type Category string

const (
	CategoryValuation   Category = "Valuation"
	CategoryComparables Category = "Comparables"
	CategoryEquity      Category = "Equity"
	CategoryMonitoring  Category = "Monitoring"
	CategoryTitle       Category = "Title"
	CategoryParcels     Category = "Parcels"
	CategoryListings    Category = "MLS/Listings"
)

// Form names the input form an endpoint needs.
type Form string

const (
	// FormAddress takes street, city, state, and zip.
	FormAddress Form = "address"

	// FormZip takes one or more zip codes.
	FormZip Form = "zip"

	// FormFIPS takes a county FIPS code.
	FormFIPS Form = "fips"

	// FormState takes a two-letter state code.
	FormState Form = "state"

	// FormStateEnhanced takes a state code plus paging controls.
	FormStateEnhanced Form = "enhanced-state"

	// FormPolygon takes an address plus polygon coordinates.
	FormPolygon Form = "polygon"
)

// Endpoint is one provider operation as shown in the playground.
type Endpoint struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Form        Form     `json:"form"`
}

var endpoints = []Endpoint{
	{
		Key:         "valuation_advantage",
		Name:        "RELAR Full Report",
		Path:        acumidata.EndpointValuationAdvantage,
		Method:      http.MethodGet,
		Category:    CategoryValuation,
		Description: "Complete valuation with property details, comparables, and PDF report",
		Form:        FormAddress,
	},
	{
		Key:         "valuation_simple",
		Name:        "RELAR Simple Report",
		Path:        acumidata.EndpointValuationSimple,
		Method:      http.MethodGet,
		Category:    CategoryValuation,
		Description: "Quick valuation with predicted price and range",
		Form:        FormAddress,
	},
	{
		Key:         "valuation_ranged",
		Name:        "Ranged Report",
		Path:        acumidata.EndpointValuationRanged,
		Method:      http.MethodGet,
		Category:    CategoryValuation,
		Description: "Valuation range with error margin",
		Form:        FormAddress,
	},
	{
		Key:         "valuation_estimate",
		Name:        "Quantarium Full Valuation",
		Path:        acumidata.EndpointValuationEstimate,
		Method:      http.MethodGet,
		Category:    CategoryValuation,
		Description: "Quantarium estimate with property summary and valuation range",
		Form:        FormAddress,
	},
	{
		Key:         "valuation_qvmsimple",
		Name:        "QVM Simple",
		Path:        acumidata.EndpointValuationQVMSimple,
		Method:      http.MethodGet,
		Category:    CategoryValuation,
		Description: "Quantarium QVM simple valuation",
		Form:        FormAddress,
	},
	{
		Key:         "valuation_collateral",
		Name:        "Collateral Report",
		Path:        acumidata.EndpointValuationCollateral,
		Method:      http.MethodGet,
		Category:    CategoryValuation,
		Description: "Collateral assessment report",
		Form:        FormAddress,
	},
	{
		Key:         "comps_advantage",
		Name:        "Comps Advantage",
		Path:        acumidata.EndpointCompsAdvantage,
		Method:      http.MethodGet,
		Category:    CategoryComparables,
		Description: "Property details with comparable listings",
		Form:        FormAddress,
	},
	{
		Key:         "comps_radius",
		Name:        "Comps by Radius",
		Path:        acumidata.EndpointCompsRadius,
		Method:      http.MethodGet,
		Category:    CategoryComparables,
		Description: "Comparables within a radius in miles",
		Form:        FormAddress,
	},
	{
		Key:         "comps_polygon",
		Name:        "Comps by Polygon",
		Path:        acumidata.EndpointCompsPolygon,
		Method:      http.MethodGet,
		Category:    CategoryComparables,
		Description: "Comparables within a custom polygon",
		Form:        FormPolygon,
	},
	{
		Key:         "equity_advantage",
		Name:        "Equity Calculator",
		Path:        acumidata.EndpointEquityAdvantage,
		Method:      http.MethodGet,
		Category:    CategoryEquity,
		Description: "Equity position with open liens",
		Form:        FormAddress,
	},
	{
		Key:         "monitors_advantage",
		Name:        "Property Monitoring",
		Path:        acumidata.EndpointMonitorsAdvantage,
		Method:      http.MethodGet,
		Category:    CategoryMonitoring,
		Description: "Create a monitoring portfolio for the property",
		Form:        FormAddress,
	},
	{
		Key:         "title_advantage",
		Name:        "Title Report",
		Path:        acumidata.EndpointTitleAdvantage,
		Method:      http.MethodGet,
		Category:    CategoryTitle,
		Description: "Ownership and title history",
		Form:        FormAddress,
	},
	{
		Key:         "parcels_detail",
		Name:        "Parcel Detail",
		Path:        acumidata.EndpointParcelsDetail,
		Method:      http.MethodPost,
		Category:    CategoryParcels,
		Description: "Simple parcel details for an address",
		Form:        FormAddress,
	},
	{
		Key:         "listings_property",
		Name:        "Listings by Property",
		Path:        "api/Listings/advantage",
		Method:      http.MethodGet,
		Category:    CategoryListings,
		Description: "Create a listing order for one property",
		Form:        FormAddress,
	},
	{
		Key:         "listings_delta_zip",
		Name:        "Listings Delta by Zip",
		Path:        acumidata.EndpointListingsDeltaZip,
		Method:      http.MethodGet,
		Category:    CategoryListings,
		Description: "Listing changes for one or more zip codes",
		Form:        FormZip,
	},
	{
		Key:         "listings_delta_fips",
		Name:        "Listings Delta by FIPS",
		Path:        acumidata.EndpointListingsDeltaFIPS,
		Method:      http.MethodGet,
		Category:    CategoryListings,
		Description: "Listing changes for a county FIPS code",
		Form:        FormFIPS,
	},
	{
		Key:         "listings_feed",
		Name:        "MLS Data Feed",
		Path:        acumidata.EndpointListingsFeed,
		Method:      http.MethodGet,
		Category:    CategoryListings,
		Description: "Statewide MLS feed with optional paging",
		Form:        FormStateEnhanced,
	},
}

// All returns every catalog entry in display order.
func All() []Endpoint {
	out := make([]Endpoint, len(endpoints))
	copy(out, endpoints)
	return out
}

// Categories returns the categories in display order.
func Categories() []Category {
	return []Category{
		CategoryValuation,
		CategoryComparables,
		CategoryEquity,
		CategoryMonitoring,
		CategoryTitle,
		CategoryParcels,
		CategoryListings,
	}
}

// ByCategory returns the endpoints of one category in display order.
func ByCategory(c Category) []Endpoint {
	var out []Endpoint
	for _, e := range endpoints {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Find looks up an endpoint by key.
func Find(key string) (Endpoint, bool) {
	for _, e := range endpoints {
		if e.Key == key {
			return e, true
		}
	}
	return Endpoint{}, false
}
