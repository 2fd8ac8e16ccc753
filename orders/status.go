package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"farmfork/db"
	"farmfork/middleware"
	"farmfork/models"
	"farmfork/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// UpdateStatus moves an order along its lifecycle and appends a tracking
// entry. Transitions follow the linear chain pending → confirmed → on_route
// → shipped → delivered → received, with cancellation allowed from any
// non-terminal state. Updates on a terminal order are rejected.
func UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	status, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, code, err := loadVisible(ctx, r, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, code, err.Error())
		return
	}

	if code, err := authorizeStatusChange(r, order, status); err != nil {
		utils.RespondWithError(w, code, err.Error())
		return
	}

	loadedVersion := order.Version
	if err := order.ApplyStatus(status, input.Note); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, models.ErrOrderTerminal) {
			code = http.StatusConflict
		}
		utils.RespondWithError(w, code, err.Error())
		return
	}

	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": order.OrderID, "version": loadedVersion},
		bson.M{"$set": bson.M{
			"status":     order.Status,
			"tracking":   order.Tracking,
			"ispaid":     order.IsPaid,
			"paidat":     order.PaidAt,
			"updated_at": order.UpdatedAt,
			"version":    loadedVersion + 1,
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "Order was modified concurrently, retry")
		return
	}
	order.Version = loadedVersion + 1

	notify(ctx, "order-status-changed", "order:"+order.OrderID, order)
	for _, farmerID := range involvedFarmers(order) {
		notify(ctx, "order-status-changed", "farmer:"+farmerID, order)
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// authorizeStatusChange gates who may set which status: farmers on the
// order drive forward progress and may cancel; the customer may confirm
// receipt or cancel an order that has not been confirmed yet; admins may
// set anything.
func authorizeStatusChange(r *http.Request, order *models.Order, status models.OrderStatus) (int, error) {
	callerID := utils.GetUserIDFromRequest(r)

	switch role := middleware.RoleFromRequest(r); role {
	case models.RoleAdmin:
		return 0, nil
	case models.RoleFarmer:
		if !order.InvolvesFarmer(callerID) {
			return http.StatusForbidden, errors.New("Not your order")
		}
		return 0, nil
	case models.RoleCustomer:
		if order.CustomerID != callerID {
			return http.StatusForbidden, errors.New("Not your order")
		}
		if status == models.OrderReceived {
			return 0, nil
		}
		if status == models.OrderCancelled && order.Status == models.OrderPending {
			return 0, nil
		}
		return http.StatusForbidden, errors.New("Customers may only confirm receipt or cancel a pending order")
	case models.RoleGuest:
	}
	return http.StatusForbidden, errors.New("Sign in to update orders")
}
