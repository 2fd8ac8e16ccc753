package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmfork/db"
	"farmfork/models"
	"farmfork/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productPicDir = "static/productpic"

// GetProducts returns the public catalog. ?upcoming=true|false filters by
// the upcoming flag; the "_" cache-buster param is ignored.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if up := r.URL.Query().Get("upcoming"); up != "" {
		filter["upcoming"] = up == "true"
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.ProductCollection.Find(ctx, filter, findOptions)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode products")
		return
	}
	if len(items) == 0 {
		items = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GetMyProducts returns the authenticated farmer's own listings.
func GetMyProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	farmerID := utils.GetUserIDFromRequest(r)

	cursor, err := db.ProductCollection.Find(ctx, bson.M{"farmerid": farmerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode products")
		return
	}
	if len(items) == 0 {
		items = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// decodeProductPayload reads either a JSON body or a multipart form with an
// optional "image" file. Image-bearing requests must be multipart.
func decodeProductPayload(w http.ResponseWriter, r *http.Request, p *models.Product) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(p); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
			return false
		}
		return true
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return false
	}

	p.Name = r.FormValue("name")
	p.Category = r.FormValue("category")
	p.Description = r.FormValue("description")
	p.Unit = r.FormValue("unit")
	p.HarvestDate = r.FormValue("harvestDate")
	p.Upcoming = r.FormValue("upcoming") == "true"
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid price")
			return false
		}
		p.Price = price
	}
	if v := r.FormValue("quantity"); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid quantity")
			return false
		}
		p.Quantity = qty
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		if !utils.ValidateImageFileType(w, header) {
			return false
		}
		path, err := utils.SaveImageWithThumb(file, productPicDir, "/static/productpic")
		if err != nil {
			log.Println("product image save:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
			return false
		}
		p.ImagePath = path
	}
	return true
}

func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if !decodeProductPayload(w, r, &product) {
		return
	}
	if product.Name == "" || product.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}
	if product.Unit == "" {
		product.Unit = "kg"
	}

	product.ProductID = "p" + utils.GenerateID(12)
	product.FarmerID = utils.GetUserIDFromRequest(r)
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct insert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	farmerID := utils.GetUserIDFromRequest(r)

	var existing models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&existing)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if existing.FarmerID != farmerID {
		utils.RespondWithError(w, http.StatusForbidden, "You can only edit your own products")
		return
	}

	updated := existing
	if !decodeProductPayload(w, r, &updated) {
		return
	}
	updated.ProductID = existing.ProductID
	updated.FarmerID = existing.FarmerID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if _, err := db.ProductCollection.ReplaceOne(ctx, bson.M{"productid": productID}, updated); err != nil {
		log.Println("UpdateProduct replace:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	farmerID := utils.GetUserIDFromRequest(r)

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{
		"productid": productID,
		"farmerid":  farmerID,
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product deleted"})
}
