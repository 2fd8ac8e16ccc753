package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"farmfork/models"
	"farmfork/rdx"
	"farmfork/utils"

	"github.com/julienschmidt/httprouter"
)

// AGMARKNET daily mandi prices resource on data.gov.in.
var indiaAPIBase = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

const indiaCacheTTL = 10 * time.Minute

var indiaHTTPClient = &http.Client{Timeout: 15 * time.Second}

type indiaAPIResponse struct {
	Records []struct {
		Commodity   string `json:"commodity"`
		State       string `json:"state"`
		District    string `json:"district"`
		Market      string `json:"market"`
		Variety     string `json:"variety"`
		MinPrice    string `json:"min_price"`
		MaxPrice    string `json:"max_price"`
		ModalPrice  string `json:"modal_price"`
		ArrivalDate string `json:"arrival_date"`
	} `json:"records"`
}

// GetIndianPrices proxies the AGMARKNET feed with
// ?commodity=&state=&market=&limit= filters, normalizes the records, and
// caches each distinct query in Redis.
func GetIndianPrices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	q := r.URL.Query()
	commodity := q.Get("commodity")
	state := q.Get("state")
	marketName := q.Get("market")
	limit := 25
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	cacheKey := fmt.Sprintf("market:india:%s:%s:%s:%d", commodity, state, marketName, limit)
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cached))
		return
	}

	records, err := fetchIndianPrices(ctx, commodity, state, marketName, limit)
	if err != nil {
		log.Println("india prices fetch:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Market data service is unavailable")
		return
	}

	if data, err := json.Marshal(records); err == nil {
		if err := rdx.SetWithExpiry(cacheKey, string(data), indiaCacheTTL); err != nil {
			log.Println("india price cache write:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, records)
}

func fetchIndianPrices(ctx context.Context, commodity, state, marketName string, limit int) ([]models.IndiaPrice, error) {
	params := url.Values{}
	params.Set("api-key", dataGovKey())
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	if commodity != "" {
		params.Set("filters[commodity]", commodity)
	}
	if state != "" {
		params.Set("filters[state]", state)
	}
	if marketName != "" {
		params.Set("filters[market]", marketName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indiaAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := indiaHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, body)
	}

	var parsed indiaAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}

	records := make([]models.IndiaPrice, 0, len(parsed.Records))
	for _, rec := range parsed.Records {
		records = append(records, models.IndiaPrice{
			Commodity:  rec.Commodity,
			State:      rec.State,
			District:   rec.District,
			Market:     rec.Market,
			Variety:    rec.Variety,
			MinPrice:   rec.MinPrice,
			MaxPrice:   rec.MaxPrice,
			ModalPrice: rec.ModalPrice,
			Date:       rec.ArrivalDate,
		})
	}
	return records, nil
}

func dataGovKey() string {
	if k := os.Getenv("DATA_GOV_API_KEY"); k != "" {
		return k
	}
	// data.gov.in sample key, heavily rate limited
	return "579b464db66ec23bdd000001cdd3946e44ce4aad7209ff7b23ac571b"
}
