package market

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"farmfork/db"
	"farmfork/models"
	"farmfork/rdx"
	"farmfork/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const priceCacheTTL = 5 * time.Minute

// ListPrices returns recorded price points, newest first, optionally
// filtered by ?category=. Results are cached per category in Redis.
func ListPrices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	cacheKey := "market:prices:" + category

	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cached))
		return
	}

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := db.MarketPriceCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}}).SetLimit(200))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch prices")
		return
	}
	defer cursor.Close(ctx)

	var prices []models.MarketPrice
	if err := cursor.All(ctx, &prices); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode prices")
		return
	}
	if len(prices) == 0 {
		prices = []models.MarketPrice{}
	}

	if data, err := json.Marshal(prices); err == nil {
		if err := rdx.SetWithExpiry(cacheKey, string(data), priceCacheTTL); err != nil {
			log.Println("market price cache write:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, prices)
}

// GetLatestPrice returns the most recent price point for ?product=.
func GetLatestPrice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productName := r.URL.Query().Get("product")
	if productName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "product query parameter is required")
		return
	}

	var price models.MarketPrice
	err := db.MarketPriceCollection.FindOne(ctx,
		bson.M{"productname": productName},
		options.FindOne().SetSort(bson.D{{Key: "recorded_at", Value: -1}}),
	).Decode(&price)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "No price recorded for "+productName)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, price)
}

// UploadPrice records a new price point.
func UploadPrice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var price models.MarketPrice
	if err := json.NewDecoder(r.Body).Decode(&price); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if price.ProductName == "" || price.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Product name and a positive price are required")
		return
	}
	if price.Unit == "" {
		price.Unit = "kg"
	}
	price.RecordedAt = time.Now()

	if _, err := db.MarketPriceCollection.InsertOne(ctx, price); err != nil {
		log.Println("UploadPrice insert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record price")
		return
	}

	// Recorded prices invalidate the cached listings.
	if err := rdx.RdxDel("market:prices:" + price.Category); err != nil {
		log.Println("market price cache invalidate:", err)
	}
	if price.Category != "" {
		if err := rdx.RdxDel("market:prices:"); err != nil {
			log.Println("market price cache invalidate:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, price)
}
