package federacion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"CafePull/internal/domain/apperrors"
	"CafePull/internal/domain/models"
	drepo "CafePull/internal/domain/repository"
	xhttp "CafePull/pkg/http"
	xlogger "CafePull/pkg/logger"

	"github.com/PuerkitoBio/goquery"
)

var dateToken = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// browserHeaders makes the request look like an ordinary browser visit;
// the site serves a reduced page to unknown agents.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "es-ES,es;q=0.9,en;q=0.8",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// Client scrapes the coffee market indicators published on the federation
// front page.
type Client struct {
	baseURL    string
	maxRetries int
	retryDelay time.Duration

	httpClient *xhttp.Client
	logger     *xlogger.Logger
}

// New creates a CoffeePriceSource backed by the federation site.
func New(baseURL string, timeout time.Duration, maxRetries int, retryDelay time.Duration, logger *xlogger.Logger) drepo.CoffeePriceSource {
	return &Client{
		baseURL:    baseURL,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		httpClient: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithDefaultHeaders(browserHeaders),
		),
		logger: logger,
	}
}

// ScrapeCoffeePrice fetches and extracts the raw indicator set. Each
// attempt covers both the fetch and the extraction; after exhaustion a
// transport-level failure surfaces as NetworkError, anything else as
// ScrapingError.
func (c *Client) ScrapeCoffeePrice(ctx context.Context) (*models.RawIndicatorSet, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		c.logger.Info("scraping attempt",
			xlogger.Int("attempt", attempt),
			xlogger.Int("max_retries", c.maxRetries),
		)

		raw, err := c.scrapeOnce(ctx)
		if err == nil {
			return raw, nil
		}

		lastErr = err
		c.logger.Warn("scraping attempt failed",
			xlogger.Int("attempt", attempt),
			xlogger.Error(err),
		)

		if attempt < c.maxRetries {
			c.logger.Info("waiting before retry", xlogger.Duration("delay", c.retryDelay))
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, apperrors.NewNetworkError(
					fmt.Sprintf("Network error after %d attempts", attempt),
					ctx.Err().Error(),
				)
			}
		}
	}

	var uerr *url.Error
	if errors.As(lastErr, &uerr) {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("Network error after %d attempts", c.maxRetries),
			lastErr.Error(),
		).WithError(lastErr)
	}
	return nil, apperrors.NewScrapingError(
		fmt.Sprintf("Scraping failed after %d attempts", c.maxRetries),
		lastErr.Error(),
	).WithError(lastErr)
}

func (c *Client) scrapeOnce(ctx context.Context) (*models.RawIndicatorSet, error) {
	body, err := c.httpClient.FetchDocument(ctx, c.baseURL+"/", nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return c.extractIndicators(doc)
}

func (c *Client) extractIndicators(doc *goquery.Document) (*models.RawIndicatorSet, error) {
	list := doc.Find(".col-12.lista-container ul.lista")
	if list.Length() == 0 {
		return nil, fmt.Errorf("lista container not found")
	}

	raw := &models.RawIndicatorSet{}

	if li := findIndicatorItem(list, "precio interno"); li != nil {
		raw.PrecioInternoReferencia = strings.TrimSpace(li.Find("strong").First().Text())
		raw.PrecioInternoFecha = extractDateFromDetail(li.Find(".detail").Text())
		if href, ok := li.Find(".detail a").Attr("href"); ok {
			raw.PdfURL = href
		}
	}

	if li := findIndicatorItem(list, "bolsa de ny"); li != nil {
		raw.BolsaNY = strings.TrimSpace(li.Find("strong").First().Text())
		raw.BolsaFecha = extractDateFromDetail(li.Find(".detail").Text())
	}

	if li := findIndicatorItem(list, "tasa de cambio"); li != nil {
		raw.TasaCambio = strings.TrimSpace(li.Find("strong").First().Text())
		raw.TasaFecha = extractDateFromDetail(li.Find(".detail").Text())
	}

	if li := findIndicatorItem(list, "mecic"); li != nil {
		raw.Mecic = strings.TrimSpace(li.Find("strong").First().Text())
		raw.MecicFecha = extractDateFromDetail(li.Find(".detail").Text())
	}

	// Partial data is not acceptable: the three exchange-facing indicators
	// must all be present.
	if raw.PrecioInternoReferencia == "" || raw.BolsaNY == "" || raw.TasaCambio == "" {
		return nil, fmt.Errorf("missing essential price data")
	}

	return raw, nil
}

// findIndicatorItem locates the first <li> whose label contains marker,
// case-insensitive.
func findIndicatorItem(list *goquery.Selection, marker string) *goquery.Selection {
	var found *goquery.Selection
	list.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		name := strings.ToLower(li.Find(".name").Text())
		if strings.Contains(name, marker) {
			found = li
			return false
		}
		return true
	})
	return found
}

// extractDateFromDetail pulls the first YYYY-MM-DD token out of a detail
// blob; the fallback to today mirrors the date normalizer.
func extractDateFromDetail(detail string) string {
	if m := dateToken.FindString(detail); m != "" {
		return m
	}
	return time.Now().Format("2006-01-02")
}
