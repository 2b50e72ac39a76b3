package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"CafePull/internal/domain/apperrors"
	"CafePull/internal/domain/models"
)

const dateLayout = "2006-01-02"

var (
	digitsAndCommas = regexp.MustCompile(`[^\d,]`)
	digitsAndDots   = regexp.MustCompile(`[^\d.]`)
	leadingDigits   = regexp.MustCompile(`^\d+`)
	decimalRun      = regexp.MustCompile(`\d+(\.\d+)?`)

	// Layouts the federation page has been seen publishing dates in.
	dateLayouts = []string{
		dateLayout,
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02 15:04:05",
		"02/01/2006",
	}
)

// ExtractNumericValue parses a thousands-grouped currency string into an
// integer value. "$2.780.000" becomes 2780000. The sign is discarded and
// unparsable input yields 0.
func ExtractNumericValue(value string) float64 {
	if value == "" {
		return 0
	}

	clean := digitsAndCommas.ReplaceAllString(value, "")
	clean = strings.Replace(clean, ",", ".", 1)
	clean = strings.Replace(clean, ".", "", 1)

	digits := leadingDigits.FindString(clean)
	if digits == "" {
		return 0
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n)
}

// ExtractDecimalValue parses a decimal string quoted with a comma decimal
// marker. "343,60" becomes 343.6. The sign is discarded and unparsable
// input yields 0.
func ExtractDecimalValue(value string) float64 {
	if value == "" {
		return 0
	}

	clean := strings.Replace(value, ",", ".", 1)
	clean = digitsAndDots.ReplaceAllString(clean, "")

	run := decimalRun.FindString(clean)
	if run == "" {
		return 0
	}

	n, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatDate normalizes a date string to YYYY-MM-DD. Unparsable or empty
// input falls back to today, so date normalization never fails.
func FormatDate(dateStr string) string {
	if dateStr == "" {
		return time.Now().Format(dateLayout)
	}

	s := strings.TrimSpace(dateStr)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}

	return time.Now().Format(dateLayout)
}

// CoffeePrice converts the raw scraped indicator set into the normalized
// aggregate. A nil raw set is a contract violation.
func CoffeePrice(raw *models.RawIndicatorSet, sourceURL string) (*models.CoffeePriceIndicator, error) {
	if raw == nil {
		return nil, apperrors.NewScrapingError("Error normalizing scraped data", "raw indicator set is nil")
	}

	return &models.CoffeePriceIndicator{
		PrecioInternoReferencia: models.Indicator{
			Valor:  ExtractNumericValue(raw.PrecioInternoReferencia),
			Moneda: "COP",
			Fecha:  FormatDate(raw.PrecioInternoFecha),
		},
		BolsaNY: models.Indicator{
			Valor:  ExtractDecimalValue(raw.BolsaNY),
			Unidad: "cents/lb",
			Fecha:  FormatDate(raw.BolsaFecha),
		},
		TasaCambio: models.Indicator{
			Valor:  ExtractNumericValue(raw.TasaCambio),
			Moneda: "COP/USD",
			Fecha:  FormatDate(raw.TasaFecha),
		},
		Mecic: models.Indicator{
			Valor: ExtractNumericValue(raw.Mecic),
			Fecha: FormatDate(raw.MecicFecha),
		},
		Fuente: models.PriceSource{
			URL:       sourceURL,
			PdfPrecio: raw.PdfURL,
		},
	}, nil
}
