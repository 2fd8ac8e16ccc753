package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"farmfork/db"
	"farmfork/middleware"
	"farmfork/models"
	"farmfork/mq"
	"farmfork/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createOrderInput struct {
	Items []struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

// CreateOrder snapshots the referenced products and writes a pending order.
// The server recomputes the total; the client-sent figure is only checked
// against it, never trusted. On success the caller's stored cart is cleared.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	customerID := utils.GetUserIDFromRequest(r)

	var input createOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if len(input.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order needs at least one item")
		return
	}
	if input.PaymentMethod != string(models.PaymentCOD) && input.PaymentMethod != string(models.PaymentOnline) {
		utils.RespondWithError(w, http.StatusBadRequest, "Payment method must be cod or online")
		return
	}
	if input.ShippingAddress.Address == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Shipping address is required")
		return
	}
	if input.ShippingPrice < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid shipping price")
		return
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity < 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "Item quantity must be at least 1")
			return
		}
		var product models.Product
		if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": line.Product}).Decode(&product); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown product "+line.Product)
			return
		}
		items = append(items, models.OrderItem{
			ProductID: product.ProductID,
			FarmerID:  product.FarmerID,
			Name:      product.Name,
			Price:     product.Price,
			Unit:      product.Unit,
			Quantity:  line.Quantity,
		})
	}

	now := time.Now()
	order := models.Order{
		OrderID:         uuid.NewString(),
		CustomerID:      customerID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   models.PaymentMethod(input.PaymentMethod),
		ShippingPrice:   input.ShippingPrice,
		Status:          models.OrderPending,
		Tracking:        []models.TrackingEntry{},
		Version:         0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.TotalPrice = order.Subtotal() + order.ShippingPrice

	// The client computes its own total; accept it only as a hint.
	if input.TotalPrice != 0 && math.Abs(input.TotalPrice-order.TotalPrice) > 0.01 {
		utils.RespondWithError(w, http.StatusBadRequest, "Submitted total does not match current prices")
		return
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("CreateOrder insert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	// Checkout is all-or-nothing: the cart survives any failure above.
	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": customerID}); err != nil {
		log.Println("CreateOrder cart clear:", err)
	}

	for _, farmerID := range involvedFarmers(&order) {
		notify(ctx, "order-created", "farmer:"+farmerID, &order)
	}

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrder serves GET /api/orders/:id. The static projections /mine and
// /farmer share the route, so dispatch happens on the path parameter.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	switch ps.ByName("id") {
	case "mine":
		getMyOrders(w, r)
	case "farmer":
		getFarmerOrders(w, r)
	default:
		getOrderByID(w, r, ps.ByName("id"))
	}
}

func getMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	customerID := utils.GetUserIDFromRequest(r)
	findOrders(ctx, w, bson.M{"customerid": customerID})
}

// getFarmerOrders returns orders containing at least one of the caller's
// products. Admins get the unscoped list.
func getFarmerOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	role := middleware.RoleFromRequest(r)
	if role != models.RoleFarmer && role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Farmer account required")
		return
	}

	findOrders(ctx, w, farmerOrdersFilter(role, utils.GetUserIDFromRequest(r)))
}

func farmerOrdersFilter(role models.Role, userID string) bson.M {
	if role == models.RoleAdmin {
		return bson.M{}
	}
	return bson.M{"items.farmerid": userID}
}

func findOrders(ctx context.Context, w http.ResponseWriter, filter bson.M) {
	cursor, err := db.OrderCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

func getOrderByID(w http.ResponseWriter, r *http.Request, orderID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, code, err := loadVisible(ctx, r, orderID)
	if err != nil {
		utils.RespondWithError(w, code, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// loadVisible fetches an order and checks the caller may see it: its
// customer, an involved farmer, or an admin.
func loadVisible(ctx context.Context, r *http.Request, orderID string) (*models.Order, int, error) {
	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		return nil, http.StatusNotFound, errors.New("Order not found")
	}

	callerID := utils.GetUserIDFromRequest(r)
	switch role := middleware.RoleFromRequest(r); role {
	case models.RoleAdmin:
		return &order, 0, nil
	case models.RoleFarmer:
		if order.InvolvesFarmer(callerID) || order.CustomerID == callerID {
			return &order, 0, nil
		}
	case models.RoleCustomer:
		if order.CustomerID == callerID {
			return &order, 0, nil
		}
	case models.RoleGuest:
	}
	return nil, http.StatusForbidden, errors.New("You cannot view this order")
}

func involvedFarmers(o *models.Order) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, it := range o.Items {
		if !seen[it.FarmerID] {
			seen[it.FarmerID] = true
			ids = append(ids, it.FarmerID)
		}
	}
	return ids
}

func notify(ctx context.Context, event, room string, o *models.Order) {
	payload, err := json.Marshal(o)
	if err != nil {
		log.Println("order notify marshal:", err)
		return
	}
	mq.Emit(ctx, mq.Event{Name: event, Room: room, EntityID: o.OrderID, Payload: payload})
}
