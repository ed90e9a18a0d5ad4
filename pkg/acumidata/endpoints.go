package acumidata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/acumidata/propdash/pkg/relar"
)

// Endpoint paths, relative to the environment base URL.
const (
	EndpointValuationAdvantage  = "api/Valuation/advantage"
	EndpointValuationSimple     = "api/Valuation/simple"
	EndpointValuationRanged     = "api/Valuation/ranged"
	EndpointValuationEstimate   = "api/Valuation/estimate"
	EndpointValuationQVMSimple  = "api/Valuation/qvmsimple"
	EndpointValuationCollateral = "api/Valuation/collateral"
	EndpointCompsAdvantage      = "api/Comps/advantage"
	EndpointCompsRadius         = "api/Comps/advantageradius"
	EndpointCompsPolygon        = "api/Comps/advantagepolygon"
	EndpointEquityAdvantage     = "api/Equity/advantage"
	EndpointMonitorsAdvantage   = "api/Monitors/advantage"
	EndpointTitleAdvantage      = "api/Title/advantage"
	EndpointListingsDeltaZip    = "api/Listings/delta-zip"
	EndpointListingsDeltaFIPS   = "api/Listings/delta-fips"
	EndpointListingsFeed        = "api/Listings/feed"
	EndpointParcelsDetail       = "api/Parcels/detail"
)

// ReportEndpoint maps a report kind to its valuation endpoint.
func ReportEndpoint(kind relar.Kind) (string, error) {
	switch kind {
	case relar.KindFull:
		return EndpointValuationAdvantage, nil
	case relar.KindSimple:
		return EndpointValuationSimple, nil
	case relar.KindRanged:
		return EndpointValuationRanged, nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// FetchReport requests the valuation report of the given kind for one
// address and returns the decoded payload. This is the call the batch
// pipeline issues per input row.
func (c *Client) FetchReport(ctx context.Context, addr relar.Address, kind relar.Kind) (map[string]any, error) {
	endpoint, err := ReportEndpoint(kind)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, endpoint, valuationParams(addr))
}

// valuationParams builds the query for the RELAR valuation endpoints, which
// key on street address and zip only.
func valuationParams(addr relar.Address) url.Values {
	return url.Values{
		"streetAddress": {addr.Street},
		"zip":           {addr.Zip},
	}
}

// fullAddressParams builds the query for endpoints that take the complete
// address.
func fullAddressParams(addr relar.Address) url.Values {
	return url.Values{
		"streetAddress": {addr.Street},
		"city":          {addr.City},
		"state":         {addr.State},
		"zip":           {addr.Zip},
	}
}

// ValuationAdvantage fetches the RELAR Full Report.
func (c *Client) ValuationAdvantage(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointValuationAdvantage, valuationParams(addr))
}

// ValuationSimple fetches the RELAR Simple Report.
func (c *Client) ValuationSimple(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointValuationSimple, valuationParams(addr))
}

// ValuationRanged fetches the RELAR Ranged Report.
func (c *Client) ValuationRanged(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointValuationRanged, valuationParams(addr))
}

// ValuationEstimate fetches the Quantarium full valuation report.
func (c *Client) ValuationEstimate(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointValuationEstimate, valuationParams(addr))
}

// ValuationQVMSimple fetches the Quantarium QVM simple valuation.
func (c *Client) ValuationQVMSimple(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointValuationQVMSimple, valuationParams(addr))
}

// ValuationCollateral fetches the Quantarium collateral report.
func (c *Client) ValuationCollateral(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointValuationCollateral, valuationParams(addr))
}

// CompsAdvantage fetches property details with comparable listings.
func (c *Client) CompsAdvantage(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointCompsAdvantage, fullAddressParams(addr))
}

// CompsAdvantageRadius fetches comparables within a radius in miles.
// The endpoint expects capitalized parameter names.
func (c *Client) CompsAdvantageRadius(ctx context.Context, addr relar.Address, radius string) (map[string]any, error) {
	if radius == "" {
		radius = "0.5"
	}
	params := url.Values{
		"StreetAddress": {addr.Street},
		"City":          {addr.City},
		"State":         {addr.State},
		"Zip":           {addr.Zip},
		"Radius":        {radius},
	}
	return c.get(ctx, EndpointCompsRadius, params)
}

// PolygonOptions narrows a polygon comps search.
type PolygonOptions struct {
	LandUse         string
	Date            string
	IncludeBirdseye string
}

// CompsAdvantagePolygon fetches comparables within a custom polygon.
func (c *Client) CompsAdvantagePolygon(ctx context.Context, addr relar.Address, polygon string, opts PolygonOptions) (map[string]any, error) {
	params := url.Values{
		"StreetAddress": {addr.Street},
		"City":          {addr.City},
		"State":         {addr.State},
		"Zip":           {addr.Zip},
		"Polygon":       {polygon},
	}
	if opts.LandUse != "" {
		params.Set("LandUse", opts.LandUse)
	}
	if opts.Date != "" {
		params.Set("Date", opts.Date)
	}
	if opts.IncludeBirdseye != "" {
		params.Set("IncludeBirdseye", opts.IncludeBirdseye)
	}
	return c.get(ctx, EndpointCompsPolygon, params)
}

// EquityAdvantage fetches the equity calculator report.
func (c *Client) EquityAdvantage(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointEquityAdvantage, fullAddressParams(addr))
}

// MonitorsAdvantage creates a monitoring portfolio for the property.
func (c *Client) MonitorsAdvantage(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointMonitorsAdvantage, fullAddressParams(addr))
}

// TitleAdvantage fetches the title report.
func (c *Client) TitleAdvantage(ctx context.Context, addr relar.Address) (map[string]any, error) {
	return c.get(ctx, EndpointTitleAdvantage, fullAddressParams(addr))
}

// ListingsByProperty creates a listing order for the property. The product
// segment defaults to "advantage".
func (c *Client) ListingsByProperty(ctx context.Context, addr relar.Address, product string) (map[string]any, error) {
	if product == "" {
		product = "advantage"
	}
	return c.get(ctx, "api/Listings/"+product, fullAddressParams(addr))
}

// DeltaOptions narrows a listings delta report.
type DeltaOptions struct {
	StartDate string
	EndDate   string
	Statuses  string
	RefID     string
}

func (o DeltaOptions) apply(params url.Values) {
	if o.StartDate != "" {
		params.Set("startDate", o.StartDate)
	}
	if o.EndDate != "" {
		params.Set("endDate", o.EndDate)
	}
	if o.Statuses != "" {
		params.Set("statuses", o.Statuses)
	}
	if o.RefID != "" {
		params.Set("refId", o.RefID)
	}
}

// ListingsDeltaZip fetches the listings delta report for one or more zip
// codes (comma separated).
func (c *Client) ListingsDeltaZip(ctx context.Context, zipCodes string, opts DeltaOptions) (map[string]any, error) {
	params := url.Values{"zipCodes": {zipCodes}}
	opts.apply(params)
	return c.get(ctx, EndpointListingsDeltaZip, params)
}

// ListingsDeltaFIPS fetches the listings delta report for a FIPS code.
func (c *Client) ListingsDeltaFIPS(ctx context.Context, fipsCode string, opts DeltaOptions) (map[string]any, error) {
	params := url.Values{"fipsCode": {fipsCode}}
	opts.apply(params)
	return c.get(ctx, EndpointListingsDeltaFIPS, params)
}

// FeedOptions controls an MLS feed pull. PageSize and TransactionID drive
// the paginated variant of the feed.
type FeedOptions struct {
	StartTimestamp int64
	EndTimestamp   int64
	ExtractType    string
	PageSize       int
	TransactionID  int64
}

// ListingsFeed fetches the MLS data feed for a state.
func (c *Client) ListingsFeed(ctx context.Context, state string, opts FeedOptions) (map[string]any, error) {
	params := url.Values{"state": {state}}
	if opts.PageSize > 0 {
		params.Set("pagesize", strconv.Itoa(opts.PageSize))
	}
	if opts.StartTimestamp > 0 {
		params.Set("startTimeStamp", strconv.FormatInt(opts.StartTimestamp, 10))
	}
	if opts.EndTimestamp > 0 {
		params.Set("endTimeStamp", strconv.FormatInt(opts.EndTimestamp, 10))
	}
	if opts.ExtractType != "" {
		params.Set("extractType", opts.ExtractType)
	}
	if opts.TransactionID > 0 {
		params.Set("transactionId", strconv.FormatInt(opts.TransactionID, 10))
	}
	return c.get(ctx, EndpointListingsFeed, params)
}

// ParcelsDetail fetches simple parcel details. This endpoint is a POST.
func (c *Client) ParcelsDetail(ctx context.Context, addr relar.Address) (map[string]any, error) {
	body := map[string]any{
		"streetAddress": addr.Street,
		"city":          addr.City,
		"state":         addr.State,
		"zip":           addr.Zip,
	}
	return c.post(ctx, EndpointParcelsDetail, body)
}
