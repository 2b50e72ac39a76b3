package ice

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"CafePull/internal/domain/apperrors"
	"CafePull/internal/domain/models"
	drepo "CafePull/internal/domain/repository"
	"CafePull/internal/service/analytics"
	xhttp "CafePull/pkg/http"
	xlogger "CafePull/pkg/logger"

	"github.com/PuerkitoBio/goquery"
)

var (
	contractToken = regexp.MustCompile(`[A-Za-z]{3}\d{2}`)
	tradeTime     = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*(\d{1,2}:\d{2}\s*[AP]M)`)

	contractMonths = map[string]time.Month{
		"Jan": time.January, "Feb": time.February, "Mar": time.March,
		"Apr": time.April, "May": time.May, "Jun": time.June,
		"Jul": time.July, "Aug": time.August, "Sep": time.September,
		"Oct": time.October, "Nov": time.November, "Dec": time.December,
	}
)

// Client scrapes the Coffee C futures data table published by ICE.
type Client struct {
	baseURL    string
	maxRetries int

	httpClient *xhttp.Client
	logger     *xlogger.Logger
}

// New creates a FuturesSource backed by the ICE data page.
func New(baseURL string, timeout time.Duration, maxRetries int, logger *xlogger.Logger) drepo.FuturesSource {
	return &Client{
		baseURL:    baseURL,
		maxRetries: maxRetries,
		httpClient: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithDefaultHeaders(map[string]string{
				"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
				"Accept":     "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			}),
		),
		logger: logger,
	}
}

// GetFuturesData fetches and parses the futures table for the range. The
// aggregate comes back sorted ascending by timestamp with per-point change
// already derived.
func (c *Client) GetFuturesData(ctx context.Context, timeRange models.TimeRange) (*models.FuturesHistory, error) {
	start := time.Now()
	c.logger.Info("starting futures scraping", xlogger.String("range", string(timeRange)))

	html, err := c.fetchPageWithRetry(ctx)
	if err != nil {
		c.logger.Error("futures scraping failed",
			xlogger.Duration("duration", time.Since(start)),
			xlogger.Error(err),
		)
		return nil, apperrors.NewScrapingError(
			"Error al hacer scraping de datos de ICE Futures",
			err.Error(),
		).WithError(err)
	}

	points, err := c.parseTable(html)
	if err != nil {
		return nil, apperrors.NewScrapingError(
			"Error al hacer scraping de datos de ICE Futures",
			err.Error(),
		).WithError(err)
	}
	if len(points) == 0 {
		return nil, apperrors.NewScrapingError(
			"Error al hacer scraping de datos de ICE Futures",
			"no data points extracted from the ICE page",
		)
	}

	now := time.Now().UTC()
	history := &models.FuturesHistory{
		Symbol:     "KC",
		Name:       "Coffee C Futures",
		Exchange:   "ICE",
		Currency:   "USD",
		LastUpdate: now.Format(time.RFC3339),
		DataPoints: len(points),
		TimeRange:  timeRange,
		Data:       points,
		Statistics: analytics.Summarize(points),
		Source: models.FuturesSource{
			URL:        c.baseURL,
			ScrapeTime: now.Format(time.RFC3339),
		},
	}

	c.logger.Info("futures data scraped",
		xlogger.Int("data_points", len(points)),
		xlogger.Duration("duration", time.Since(start)),
	)

	return history, nil
}

// fetchPageWithRetry retries with exponential backoff (1s, 2s, 4s, ...).
func (c *Client) fetchPageWithRetry(ctx context.Context) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		c.logger.Info("fetching futures page",
			xlogger.String("url", c.baseURL),
			xlogger.Int("attempt", attempt+1),
			xlogger.Int("max_retries", c.maxRetries),
		)

		body, err := c.httpClient.FetchDocument(ctx, c.baseURL, nil)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if attempt < c.maxRetries-1 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			c.logger.Info("request failed, retrying", xlogger.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, lastErr
}

func (c *Client) parseTable(html []byte) ([]models.FuturesPoint, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find(".table-bigdata")
	if table.Length() == 0 {
		return nil, fmt.Errorf("futures data table not found")
	}

	var points []models.FuturesPoint

	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		point, ok := c.parseRow(i, row)
		if ok {
			points = append(points, point)
		}
	})

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})

	// Change is relative to the previous contract in timestamp order.
	for i := 1; i < len(points); i++ {
		points[i].Change = round3(points[i].Price - points[i-1].Price)
	}

	c.logger.Info("parsed futures table", xlogger.Int("data_points", len(points)))

	return points, nil
}

func (c *Client) parseRow(index int, row *goquery.Selection) (models.FuturesPoint, bool) {
	cells := row.Find("td")

	contractText := strings.TrimSpace(cells.Eq(0).Text())
	contract := contractToken.FindString(contractText)
	if contract == "" {
		c.logger.Debug("skipping row with invalid contract",
			xlogger.Int("row", index),
			xlogger.String("contract", contractText),
		)
		return models.FuturesPoint{}, false
	}

	priceText := strings.TrimSpace(cells.Eq(1).Text())
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		c.logger.Debug("skipping row with invalid price",
			xlogger.Int("row", index),
			xlogger.String("price", priceText),
		)
		return models.FuturesPoint{}, false
	}

	month, year, ts, err := parseContractDate(contract)
	if err != nil {
		c.logger.Debug("skipping row with invalid contract month",
			xlogger.Int("row", index),
			xlogger.Error(err),
		)
		return models.FuturesPoint{}, false
	}

	dateStr, timeStr := parseTradeTime(strings.TrimSpace(cells.Eq(2).Find("span").Text()))

	changePercent, err := strconv.ParseFloat(strings.TrimSpace(cells.Eq(3).Text()), 64)
	if err != nil {
		changePercent = 0
	}

	volumeText := strings.ReplaceAll(strings.TrimSpace(cells.Eq(4).Text()), ",", "")
	volume, err := strconv.ParseInt(volumeText, 10, 64)
	if err != nil {
		volume = 0
	}

	return models.FuturesPoint{
		Date:          dateStr,
		Time:          timeStr,
		Price:         price,
		ChangePercent: changePercent,
		Volume:        volume,
		High:          price,
		Low:           price,
		Settlement:    price,
		Timestamp:     ts,
		Contract:      contract,
		ContractMonth: month,
		ContractYear:  year,
	}, true
}

// parseContractDate converts a contract token like "Sep25" into its month
// name, year and first-of-month UTC timestamp in milliseconds.
func parseContractDate(contract string) (string, int, int64, error) {
	monthStr := contract[:3]
	month, ok := contractMonths[monthStr]
	if !ok {
		return "", 0, 0, fmt.Errorf("invalid contract month: %s", monthStr)
	}

	yy, err := strconv.Atoi(contract[3:])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid contract year: %s", contract[3:])
	}
	year := 2000 + yy

	ts := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	return monthStr, year, ts, nil
}

// parseTradeTime splits a "M/D/YYYY h:mm AM" cell; anything else keeps the
// raw text as the time and falls back to today's date.
func parseTradeTime(text string) (string, string) {
	if text == "" {
		now := time.Now()
		return now.Format("2006-01-02"), now.Format("15:04:05")
	}

	if m := tradeTime.FindStringSubmatch(text); m != nil {
		return m[1], m[2]
	}

	return time.Now().Format("2006-01-02"), text
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
