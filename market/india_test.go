package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchIndianPricesNormalizesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Tomato", r.URL.Query().Get("filters[commodity]"))
		assert.Equal(t, "Karnataka", r.URL.Query().Get("filters[state]"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.URL.Query().Get("api-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"records": [
				{
					"commodity": "Tomato",
					"state": "Karnataka",
					"district": "Kolar",
					"market": "Kolar",
					"variety": "Local",
					"min_price": "1200",
					"max_price": "1800",
					"modal_price": "1500",
					"arrival_date": "28/08/2026"
				}
			]
		}`))
	}))
	defer srv.Close()

	oldBase := indiaAPIBase
	indiaAPIBase = srv.URL
	defer func() { indiaAPIBase = oldBase }()

	records, err := fetchIndianPrices(context.Background(), "Tomato", "Karnataka", "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Tomato", rec.Commodity)
	assert.Equal(t, "Kolar", rec.Market)
	assert.Equal(t, "1500", rec.ModalPrice)
	assert.Equal(t, "28/08/2026", rec.Date)
}

func TestFetchIndianPricesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	oldBase := indiaAPIBase
	indiaAPIBase = srv.URL
	defer func() { indiaAPIBase = oldBase }()

	_, err := fetchIndianPrices(context.Background(), "", "", "", 25)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetchIndianPricesBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	oldBase := indiaAPIBase
	indiaAPIBase = srv.URL
	defer func() { indiaAPIBase = oldBase }()

	_, err := fetchIndianPrices(context.Background(), "", "", "", 25)
	assert.Error(t, err)
}
