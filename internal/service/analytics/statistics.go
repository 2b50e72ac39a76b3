package analytics

import (
	"math"

	"CafePull/internal/domain/models"
)

// Summarize computes the derived statistics block for a futures series.
// The series must already be sorted ascending by timestamp. Returns nil
// for an empty series.
func Summarize(points []models.FuturesPoint) *models.Statistics {
	if len(points) == 0 {
		return nil
	}

	var priceSum, volumeSum float64
	maxPrice := points[0].Price
	minPrice := points[0].Price

	for _, p := range points {
		priceSum += p.Price
		volumeSum += float64(p.Volume)
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
		if p.Price < minPrice {
			minPrice = p.Price
		}
	}

	avgPrice := priceSum / float64(len(points))
	volumeAvg := volumeSum / float64(len(points))

	var varianceSum float64
	for _, p := range points {
		d := p.Price - avgPrice
		varianceSum += d * d
	}
	volatility := math.Sqrt(varianceSum / float64(len(points)))

	// 30-day change needs at least 30 points; shorter series report 0.
	var priceChange30d float64
	if len(points) >= 30 {
		base := points[len(points)-30].Price
		priceChange30d = (points[len(points)-1].Price - base) / base * 100
	}

	return &models.Statistics{
		AvgPrice:       round2(avgPrice),
		MaxPrice:       maxPrice,
		MinPrice:       minPrice,
		Volatility:     round2(volatility),
		Trend:          classifyTrend(points),
		PriceChange30d: round2(priceChange30d),
		VolumeAvg:      math.Round(volumeAvg),
	}
}

// classifyTrend compares the mean of the last 10 points against the mean
// of the first 10; a relative difference beyond ±2% marks a direction.
func classifyTrend(points []models.FuturesPoint) models.Trend {
	recent := tailMean(points, 10)
	old := headMean(points, 10)
	if old == 0 {
		return models.TrendNeutral
	}

	diff := (recent - old) / old * 100
	switch {
	case diff > 2:
		return models.TrendBullish
	case diff < -2:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// AssessQuality scores how complete and usable the scraped series is.
func AssessQuality(points []models.FuturesPoint) *models.DataQuality {
	total := len(points)
	if total == 0 {
		return &models.DataQuality{Recommendation: recommendation(0)}
	}

	var validPrices, validVolumes int
	for _, p := range points {
		if p.Price > 0 {
			validPrices++
		}
		if p.Volume > 0 {
			validVolumes++
		}
	}

	return &models.DataQuality{
		TotalDataPoints: total,
		ValidPrices:     validPrices,
		ValidVolumes:    validVolumes,
		QualityScore:    int(math.Round(float64(validPrices) / float64(total) * 100)),
		Completeness:    int(math.Round(float64(validPrices+validVolumes) / float64(total*2) * 100)),
		Recommendation:  recommendation(total),
	}
}

func recommendation(points int) string {
	switch {
	case points >= 250:
		return "Datos súper completos - Ideal para análisis avanzado y predicciones"
	case points >= 90:
		return "Datos profesionales - Excelente para análisis técnico detallado"
	case points >= 30:
		return "Datos básicos - Suficiente para análisis general y tendencias"
	default:
		return "Datos limitados - Considere obtener más datos históricos"
	}
}

func headMean(points []models.FuturesPoint, n int) float64 {
	if len(points) < n {
		n = len(points)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, p := range points[:n] {
		sum += p.Price
	}
	return sum / float64(n)
}

func tailMean(points []models.FuturesPoint, n int) float64 {
	if len(points) < n {
		n = len(points)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, p := range points[len(points)-n:] {
		sum += p.Price
	}
	return sum / float64(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
