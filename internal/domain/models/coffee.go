package models

// RawIndicatorSet holds the as-scraped indicator strings before
// normalization. Values may contain currency symbols, grouping separators
// or garbage text.
type RawIndicatorSet struct {
	PrecioInternoReferencia string
	PrecioInternoFecha      string
	BolsaNY                 string
	BolsaFecha              string
	TasaCambio              string
	TasaFecha               string
	Mecic                   string
	MecicFecha              string
	PdfURL                  string
}

// Indicator is a single normalized market metric.
type Indicator struct {
	Valor  float64 `json:"valor"`
	Moneda string  `json:"moneda,omitempty"`
	Unidad string  `json:"unidad,omitempty"`
	Fecha  string  `json:"fecha"`
}

// PriceSource describes where the indicators were scraped from.
type PriceSource struct {
	URL       string `json:"url"`
	PdfPrecio string `json:"pdfPrecio,omitempty"`
}

// CoffeePriceIndicator aggregates the four normalized indicators published
// by the federation front page.
type CoffeePriceIndicator struct {
	PrecioInternoReferencia Indicator   `json:"precioInternoReferencia"`
	BolsaNY                 Indicator   `json:"bolsaNY"`
	TasaCambio              Indicator   `json:"tasaCambio"`
	Mecic                   Indicator   `json:"mecic"`
	Fuente                  PriceSource `json:"fuente"`
}
