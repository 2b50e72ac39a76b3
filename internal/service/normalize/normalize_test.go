package normalize

import (
	"testing"
	"time"

	"CafePull/internal/domain/models"
)

func TestExtractNumericValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$2.780.000", 2780000},
		{"$4.015", 4015},
		{"$0", 0},
		{"2.780.000 COP", 2780000},
		{"", 0},
		{"sin datos", 0},
	}

	for _, c := range cases {
		if got := ExtractNumericValue(c.in); got != c.want {
			t.Fatalf("ExtractNumericValue(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExtractDecimalValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"343,60", 343.6},
		{"-343,60", 343.6},
		{"343.60", 343.6},
		{"1,25 USD", 1.25},
		{"", 0},
		{"n/a", 0},
	}

	for _, c := range cases {
		if got := ExtractDecimalValue(c.in); got != c.want {
			t.Fatalf("ExtractDecimalValue(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-03-15"); got != "2024-03-15" {
		t.Fatalf("unexpected date %q", got)
	}
	if got := FormatDate("2024-03-15T10:30:00Z"); got != "2024-03-15" {
		t.Fatalf("unexpected date %q", got)
	}
	if got := FormatDate("15/03/2024"); got != "2024-03-15" {
		t.Fatalf("unexpected date %q", got)
	}
}

func TestFormatDateFallsBackToToday(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	if got := FormatDate(""); got != today {
		t.Fatalf("empty input: got %q, want %q", got, today)
	}
	if got := FormatDate("no es una fecha"); got != today {
		t.Fatalf("garbage input: got %q, want %q", got, today)
	}
}

func TestCoffeePrice(t *testing.T) {
	raw := &models.RawIndicatorSet{
		PrecioInternoReferencia: "$2.780.000",
		PrecioInternoFecha:      "2024-03-15",
		BolsaNY:                 "343,60",
		BolsaFecha:              "2024-03-15",
		TasaCambio:              "$4.015",
		TasaFecha:               "2024-03-15",
		Mecic:                   "$12.500",
		MecicFecha:              "2024-03-14",
		PdfURL:                  "https://example.org/precio.pdf",
	}

	got, err := CoffeePrice(raw, "https://example.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.PrecioInternoReferencia.Valor != 2780000 {
		t.Fatalf("precio interno = %v", got.PrecioInternoReferencia.Valor)
	}
	if got.PrecioInternoReferencia.Moneda != "COP" {
		t.Fatalf("precio interno moneda = %q", got.PrecioInternoReferencia.Moneda)
	}
	if got.BolsaNY.Valor != 343.6 {
		t.Fatalf("bolsa ny = %v", got.BolsaNY.Valor)
	}
	if got.BolsaNY.Unidad != "cents/lb" {
		t.Fatalf("bolsa ny unidad = %q", got.BolsaNY.Unidad)
	}
	if got.TasaCambio.Valor != 4015 {
		t.Fatalf("tasa cambio = %v", got.TasaCambio.Valor)
	}
	if got.Mecic.Valor != 12500 {
		t.Fatalf("mecic = %v", got.Mecic.Valor)
	}
	if got.Fuente.URL != "https://example.org" {
		t.Fatalf("fuente url = %q", got.Fuente.URL)
	}
	if got.Fuente.PdfPrecio != "https://example.org/precio.pdf" {
		t.Fatalf("fuente pdf = %q", got.Fuente.PdfPrecio)
	}
}

func TestCoffeePriceNilRaw(t *testing.T) {
	if _, err := CoffeePrice(nil, "https://example.org"); err == nil {
		t.Fatalf("expected error for nil raw set")
	}
}
