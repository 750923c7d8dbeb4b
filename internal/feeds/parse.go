package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/epeers/crisisboard/internal/models"
)

// ParseSeismic decodes a USGS GeoJSON feed. Features without an id, magnitude
// or time are dropped; only an undecodable document is an error.
func ParseSeismic(body []byte) ([]SeismicFeature, error) {
	var fc usgsFeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, &ParseError{Feed: "seismic", Err: err}
	}

	var out []SeismicFeature
	for _, raw := range fc.Features {
		var f usgsFeature
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		if f.ID == "" || f.Properties.Mag == nil || f.Properties.Time == nil {
			continue
		}
		out = append(out, SeismicFeature{
			ID:        f.ID,
			Magnitude: *f.Properties.Mag,
			Place:     strings.TrimSpace(f.Properties.Place),
			Time:      time.UnixMilli(*f.Properties.Time).UTC(),
			URL:       f.Properties.URL,
			Title:     strings.TrimSpace(f.Properties.Title),
		})
	}
	return out, nil
}

// ParseStormAlerts decodes a NWS alerts GeoJSON feed. Alerts without an id or
// with an unreadable effective timestamp are dropped.
func ParseStormAlerts(body []byte) ([]StormAlert, error) {
	var fc nwsAlertCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, &ParseError{Feed: "storm", Err: err}
	}

	var out []StormAlert
	for _, raw := range fc.Features {
		var a nwsAlert
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		id := a.Properties.ID
		if id == "" {
			id = a.ID
		}
		if id == "" {
			continue
		}
		effective, err := time.Parse(time.RFC3339, strings.TrimSpace(a.Properties.Effective))
		if err != nil {
			continue
		}
		alert := StormAlert{
			ID:        id,
			Event:     strings.TrimSpace(a.Properties.Event),
			Headline:  strings.TrimSpace(a.Properties.Headline),
			Severity:  a.Properties.Severity,
			AreaDesc:  strings.TrimSpace(a.Properties.AreaDesc),
			Effective: effective.UTC(),
		}
		if sent, err := time.Parse(time.RFC3339, strings.TrimSpace(a.Properties.Sent)); err == nil {
			sent = sent.UTC()
			alert.Sent = &sent
		}
		out = append(out, alert)
	}
	return out, nil
}

// ParseIndicator decodes a World Bank indicator response: a two element array
// whose second element lists observations most-recent-first. Records with an
// unreadable year are dropped. A response carrying only the metadata element
// (the bank's error shape) is a ParseError.
func ParseIndicator(body []byte) ([]IndicatorRecord, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ParseError{Feed: "indicator", Err: err}
	}
	if len(envelope) < 2 {
		return nil, &ParseError{Feed: "indicator", Err: errors.New("missing data element")}
	}

	var records []worldBankRecord
	if err := json.Unmarshal(envelope[1], &records); err != nil {
		return nil, &ParseError{Feed: "indicator", Err: err}
	}

	out := make([]IndicatorRecord, 0, len(records))
	for _, r := range records {
		year, err := strconv.Atoi(strings.TrimSpace(r.Date))
		if err != nil {
			continue
		}
		out = append(out, IndicatorRecord{Year: year, Value: r.Value})
	}
	return out, nil
}

// LatestIndicatorValue returns the most recent non-null record
func LatestIndicatorValue(records []IndicatorRecord) (IndicatorRecord, bool) {
	for _, r := range records {
		if r.Value != nil {
			return r, true
		}
	}
	return IndicatorRecord{}, false
}

// IndicatorSeries turns most-recent-first records into a chronological series.
// Null values and repeated years are dropped.
func IndicatorSeries(kind models.IndicatorKind, unit string, records []IndicatorRecord) models.MacroSeries {
	series := models.MacroSeries{Kind: kind, Unit: unit}
	seen := make(map[int]bool, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.Value == nil || seen[r.Year] {
			continue
		}
		seen[r.Year] = true
		series.Points = append(series.Points, models.MacroPoint{Year: r.Year, Value: *r.Value})
	}
	// the bank orders by year already; keep the invariant even if it doesn't
	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Year < series.Points[j].Year
	})
	return series
}

// ParseMetalPrices decodes the spot price feed
func ParseMetalPrices(body []byte) (*MetalPrices, error) {
	var resp goldPriceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Feed: "prices", Err: err}
	}
	if len(resp.Items) == 0 {
		return nil, &ParseError{Feed: "prices", Err: errors.New("no price items")}
	}

	out := &MetalPrices{Timestamp: time.UnixMilli(resp.TS).UTC()}
	for _, it := range resp.Items {
		out.Items = append(out.Items, MetalPrice{
			Currency:     strings.ToUpper(strings.TrimSpace(it.Currency)),
			Gold:         it.XAUPrice,
			Silver:       it.XAGPrice,
			GoldChange:   it.ChgXAU,
			SilverChange: it.ChgXAG,
			GoldPct:      it.PcXAU,
			SilverPct:    it.PcXAG,
		})
	}
	return out, nil
}

// Quotes returns gold and silver quotes for currency, or nil if the feed has no
// row for it
func (p *MetalPrices) Quotes(currency string) []models.MetalQuote {
	currency = strings.ToUpper(currency)
	for _, it := range p.Items {
		if it.Currency != currency {
			continue
		}
		return []models.MetalQuote{
			{Metal: models.MetalGold, Currency: currency, Price: it.Gold, Change: it.GoldChange, ChangePercent: it.GoldPct, FetchedAt: p.Timestamp},
			{Metal: models.MetalSilver, Currency: currency, Price: it.Silver, Change: it.SilverChange, ChangePercent: it.SilverPct, FetchedAt: p.Timestamp},
		}
	}
	return nil
}

// ParseExchangeRates decodes the reference rate feed. The base currency is
// removed from the rate map if the provider echoes it.
func ParseExchangeRates(body []byte) (*models.ExchangeRates, error) {
	var resp exchangeRatesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Feed: "rates", Err: err}
	}
	base := strings.ToUpper(strings.TrimSpace(resp.Base))
	if base == "" {
		return nil, &ParseError{Feed: "rates", Err: errors.New("missing base currency")}
	}

	rates := make(map[string]float64, len(resp.Rates))
	for k, v := range resp.Rates {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == base || k == "" || v <= 0 {
			continue
		}
		rates[k] = v
	}

	// a missing date leaves the zero time
	ts, _ := time.Parse("2006-01-02", resp.Date)
	return &models.ExchangeRates{Base: base, Timestamp: ts, Rates: rates}, nil
}

// IndicatorURL builds a World Bank indicator request URL
func IndicatorURL(baseURL, countryCode, indicator string, perPage int) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("per_page", strconv.Itoa(perPage))
	return fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(countryCode), url.PathEscape(indicator), params.Encode())
}
