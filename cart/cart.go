package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"farmfork/db"
	"farmfork/models"
	"farmfork/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddToCart increments quantity if the product is already in the cart, or
// inserts a new line with the product's current name/price/unit snapshot.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, models.ErrQuantityTooLow.Error())
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": input.ProductID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	unit := product.Unit
	if unit == "" {
		unit = "kg"
	}

	// Upsert: merge-on-duplicate by accumulating quantity. The price/name
	// snapshot is written only on insert and never re-synced.
	filter := bson.M{"userId": userID, "productId": product.ProductID}
	update := bson.M{
		"$inc": bson.M{"quantity": input.Quantity},
		"$setOnInsert": bson.M{
			"name":    product.Name,
			"price":   product.Price,
			"unit":    unit,
			"addedAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	respondWithCart(ctx, w, userID, http.StatusCreated)
}

// GetCart returns the user's lines plus recomputed totals.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	respondWithCart(ctx, w, utils.GetUserIDFromRequest(r), http.StatusOK)
}

// UpdateQuantity replaces a line's quantity. Quantities below 1 are
// rejected; removal is an explicit DELETE.
func UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	productID := ps.ByName("id")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if input.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, models.ErrQuantityTooLow.Error())
		return
	}

	res, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID, "productId": productID},
		bson.M{"$set": bson.M{"quantity": input.Quantity}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
		return
	}

	respondWithCart(ctx, w, userID, http.StatusOK)
}

func RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	if _, err := db.CartCollection.DeleteOne(ctx, bson.M{
		"userId":    userID,
		"productId": ps.ByName("id"),
	}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	respondWithCart(ctx, w, userID, http.StatusOK)
}

// ClearCart empties the cart, e.g. after checkout.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"items":  []models.CartItem{},
		"totals": (&models.Cart{}).Totals(),
	})
}

func respondWithCart(ctx context.Context, w http.ResponseWriter, userID string, status int) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading cart data")
		return
	}
	if len(items) == 0 {
		items = []models.CartItem{}
	}

	agg := models.Cart{Items: items}
	utils.RespondWithJSON(w, status, utils.M{
		"items":  items,
		"totals": agg.Totals(),
	})
}
