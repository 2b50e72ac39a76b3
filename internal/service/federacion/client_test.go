package federacion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CafePull/internal/domain/apperrors"
	xlogger "CafePull/pkg/logger"
)

const fixtureHTML = `<!DOCTYPE html>
<html><body>
<div class="col-12 lista-container">
  <ul class="lista">
    <li>
      <span class="name">Precio interno de referencia</span>
      <strong>$2.780.000</strong>
      <div class="detail">2024-03-15 <a href="/static/precio.pdf">Ver PDF</a></div>
    </li>
    <li>
      <span class="name">Bolsa de NY</span>
      <strong>343,60</strong>
      <div class="detail">2024-03-15</div>
    </li>
    <li>
      <span class="name">Tasa de cambio</span>
      <strong>$4.015</strong>
      <div class="detail">2024-03-15</div>
    </li>
    <li>
      <span class="name">MeCIC</span>
      <strong>$12.500</strong>
      <div class="detail">2024-03-14</div>
    </li>
  </ul>
</div>
</body></html>`

func newTestClient(baseURL string, maxRetries int) *Client {
	return New(baseURL, 5*time.Second, maxRetries, time.Millisecond, xlogger.Nop()).(*Client)
}

func TestScrapeCoffeePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(fixtureHTML))
	}))
	defer srv.Close()

	raw, err := newTestClient(srv.URL, 3).ScrapeCoffeePrice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if raw.PrecioInternoReferencia != "$2.780.000" {
		t.Fatalf("precio interno = %q", raw.PrecioInternoReferencia)
	}
	if raw.PrecioInternoFecha != "2024-03-15" {
		t.Fatalf("precio fecha = %q", raw.PrecioInternoFecha)
	}
	if raw.BolsaNY != "343,60" {
		t.Fatalf("bolsa ny = %q", raw.BolsaNY)
	}
	if raw.TasaCambio != "$4.015" {
		t.Fatalf("tasa cambio = %q", raw.TasaCambio)
	}
	if raw.Mecic != "$12.500" {
		t.Fatalf("mecic = %q", raw.Mecic)
	}
	if raw.PdfURL != "/static/precio.pdf" {
		t.Fatalf("pdf url = %q", raw.PdfURL)
	}
}

func TestScrapeCoffeePriceRetriesThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(fixtureHTML))
	}))
	defer srv.Close()

	raw, err := newTestClient(srv.URL, 3).ScrapeCoffeePrice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
	if raw.BolsaNY != "343,60" {
		t.Fatalf("bolsa ny = %q", raw.BolsaNY)
	}
}

func TestScrapeCoffeePriceExhaustsRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).ScrapeCoffeePrice(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}

	// A reachable origin serving errors is a scraping failure, not a
	// network one.
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeScraping {
		t.Fatalf("code = %q", appErr.Code)
	}
}

func TestScrapeCoffeePriceNetworkError(t *testing.T) {
	// Server is closed up front so every attempt fails at the transport.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL, 2).ScrapeCoffeePrice(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeNetwork {
		t.Fatalf("code = %q", appErr.Code)
	}
	if appErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", appErr.Status)
	}
}

func TestScrapeCoffeePriceMissingIndicators(t *testing.T) {
	incomplete := `<div class="col-12 lista-container"><ul class="lista">
		<li><span class="name">Precio interno</span><strong>$2.780.000</strong></li>
	</ul></div>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(incomplete))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).ScrapeCoffeePrice(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeScraping {
		t.Fatalf("code = %q", appErr.Code)
	}
}
