package models

// TimeRange is one of the fixed futures lookback buckets.
type TimeRange string

const (
	TimeRange1M TimeRange = "1M"
	TimeRange3M TimeRange = "3M"
	TimeRange6M TimeRange = "6M"
	TimeRange1Y TimeRange = "1Y"
)

// ValidTimeRanges lists the recognized range values in display order.
func ValidTimeRanges() []TimeRange {
	return []TimeRange{TimeRange1M, TimeRange3M, TimeRange6M, TimeRange1Y}
}

// MinDataPoints returns the minimum series length required for the range.
func (r TimeRange) MinDataPoints() int {
	switch r {
	case TimeRange1M:
		return 20
	case TimeRange3M:
		return 60
	case TimeRange6M:
		return 120
	case TimeRange1Y:
		return 200
	default:
		return 20
	}
}

// Trend classifies the recent price direction of a series.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// FuturesPoint is one time-series sample of the futures table.
type FuturesPoint struct {
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	OpenInterest  int64   `json:"openInterest"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Settlement    float64 `json:"settlement"`
	Timestamp     int64   `json:"timestamp"` // epoch ms
	Contract      string  `json:"contract,omitempty"`
	ContractMonth string  `json:"contractMonth,omitempty"`
	ContractYear  int     `json:"contractYear,omitempty"`
}

// Statistics summarizes a futures price series.
type Statistics struct {
	AvgPrice       float64 `json:"avgPrice"`
	MaxPrice       float64 `json:"maxPrice"`
	MinPrice       float64 `json:"minPrice"`
	Volatility     float64 `json:"volatility"`
	Trend          Trend   `json:"trend"`
	PriceChange30d float64 `json:"priceChange30d"`
	VolumeAvg      float64 `json:"volumeAvg"`
}

// DataQuality scores how usable a scraped series is.
type DataQuality struct {
	TotalDataPoints int    `json:"totalDataPoints"`
	ValidPrices     int    `json:"validPrices"`
	ValidVolumes    int    `json:"validVolumes"`
	QualityScore    int    `json:"qualityScore"`
	Completeness    int    `json:"completeness"`
	Recommendation  string `json:"recommendation"`
}

// FuturesSource describes the scraped origin page.
type FuturesSource struct {
	URL        string `json:"url"`
	ScrapeTime string `json:"scrapeTime"`
}

// FuturesHistory is the futures aggregate served to the boundary layer.
// Statistics and DataQuality are computed once during enrichment and are
// immutable afterwards.
type FuturesHistory struct {
	Symbol      string         `json:"symbol"`
	Name        string         `json:"name"`
	Exchange    string         `json:"exchange"`
	Currency    string         `json:"currency"`
	LastUpdate  string         `json:"lastUpdate"`
	DataPoints  int            `json:"dataPoints"`
	TimeRange   TimeRange      `json:"timeRange"`
	Data        []FuturesPoint `json:"data"`
	Statistics  *Statistics    `json:"statistics,omitempty"`
	DataQuality *DataQuality   `json:"dataQuality,omitempty"`
	Source      FuturesSource  `json:"source"`
}
