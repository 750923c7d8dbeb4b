package feeds

import (
	"encoding/json"
	"time"
)

// usgsFeatureCollection represents the USGS earthquake GeoJSON summary feed
type usgsFeatureCollection struct {
	Features []json.RawMessage `json:"features"`
}

type usgsFeature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place string   `json:"place"`
		Time  *int64   `json:"time"`
		URL   string   `json:"url"`
		Title string   `json:"title"`
	} `json:"properties"`
}

// nwsAlertCollection represents the National Weather Service active alerts feed
type nwsAlertCollection struct {
	Features []json.RawMessage `json:"features"`
}

type nwsAlert struct {
	ID         string `json:"id"`
	Properties struct {
		ID        string `json:"id"`
		Event     string `json:"event"`
		Headline  string `json:"headline"`
		Severity  string `json:"severity"`
		AreaDesc  string `json:"areaDesc"`
		Effective string `json:"effective"`
		Sent      string `json:"sent"`
	} `json:"properties"`
}

// worldBankRecord is one observation in the second element of a World Bank
// indicator response
type worldBankRecord struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// goldPriceResponse represents the spot price feed
type goldPriceResponse struct {
	TS    int64 `json:"ts"`
	Items []struct {
		Currency string  `json:"curr"`
		XAUPrice float64 `json:"xauPrice"`
		XAGPrice float64 `json:"xagPrice"`
		ChgXAU   float64 `json:"chgXau"`
		ChgXAG   float64 `json:"chgXag"`
		PcXAU    float64 `json:"pcXau"`
		PcXAG    float64 `json:"pcXag"`
	} `json:"items"`
}

// exchangeRatesResponse represents the ECB reference rate feed
type exchangeRatesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// SeismicFeature is a parsed earthquake feature
type SeismicFeature struct {
	ID        string
	Magnitude float64
	Place     string
	Time      time.Time
	URL       string
	Title     string
}

// StormAlert is a parsed weather alert
type StormAlert struct {
	ID        string
	Event     string
	Headline  string
	Severity  string
	AreaDesc  string
	Effective time.Time
	Sent      *time.Time
}

// IndicatorRecord is a parsed World Bank observation. Value is nil when the
// bank has no figure for that year.
type IndicatorRecord struct {
	Year  int
	Value *float64
}

// MetalPrice is one currency row of the spot price feed
type MetalPrice struct {
	Currency     string
	Gold         float64
	Silver       float64
	GoldChange   float64
	SilverChange float64
	GoldPct      float64
	SilverPct    float64
}

// MetalPrices is the parsed spot price feed
type MetalPrices struct {
	Timestamp time.Time
	Items     []MetalPrice
}
