package negotiations

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"farmfork/db"
	"farmfork/middleware"
	"farmfork/models"
	"farmfork/mq"
	"farmfork/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StartNegotiation fetches or creates the single bargaining session for
// (product, caller). Calling it twice returns the same session.
func StartNegotiation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	customerID := utils.GetUserIDFromRequest(r)

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	var existing models.Negotiation
	err := db.NegotiationCollection.FindOne(ctx, bson.M{
		"productid":  productID,
		"customerid": customerID,
	}).Decode(&existing)
	if err == nil {
		utils.RespondWithJSON(w, http.StatusOK, existing)
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to look up negotiation")
		return
	}

	now := time.Now()
	session := models.Negotiation{
		NegotiationID: "n" + utils.GenerateID(12),
		ProductID:     productID,
		FarmerID:      product.FarmerID,
		CustomerID:    customerID,
		Status:        models.NegotiationOpen,
		Messages:      []models.NegotiationMessage{},
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := db.NegotiationCollection.InsertOne(ctx, session); err != nil {
		// The unique (productid, customerid) index rejects the loser of a
		// concurrent start; re-read the winning session rather than fail.
		if isDuplicateKeyError(err) {
			if e := db.NegotiationCollection.FindOne(ctx, bson.M{
				"productid":  productID,
				"customerid": customerID,
			}).Decode(&existing); e == nil {
				utils.RespondWithJSON(w, http.StatusOK, existing)
				return
			}
		}
		log.Println("StartNegotiation insert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to start negotiation")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, session)
}

// load fetches a session and checks the caller participates in it.
func load(ctx context.Context, negotiationID, callerID string) (*models.Negotiation, int, error) {
	var n models.Negotiation
	if err := db.NegotiationCollection.FindOne(ctx, bson.M{"negotiationid": negotiationID}).Decode(&n); err != nil {
		return nil, http.StatusNotFound, errors.New("Negotiation not found")
	}
	if !n.IsParticipant(callerID) {
		return nil, http.StatusForbidden, models.ErrNotParticipant
	}
	return &n, 0, nil
}

// persist writes the mutated session guarded by its version so two
// concurrent writers cannot silently overwrite each other.
func persist(ctx context.Context, n *models.Negotiation, loadedVersion int64) error {
	res, err := db.NegotiationCollection.UpdateOne(ctx,
		bson.M{"negotiationid": n.NegotiationID, "version": loadedVersion},
		bson.M{"$set": bson.M{
			"status":     n.Status,
			"messages":   n.Messages,
			"finalprice": n.FinalPrice,
			"updated_at": n.UpdatedAt,
			"version":    loadedVersion + 1,
		}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return errors.New("negotiation was modified concurrently, retry")
	}
	n.Version = loadedVersion + 1
	return nil
}

// PostMessage appends one message to an open session and returns the
// updated thread.
func PostMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	callerID := utils.GetUserIDFromRequest(r)

	var input struct {
		Text  string   `json:"text"`
		Price *float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	n, code, err := load(ctx, ps.ByName("id"), callerID)
	if err != nil {
		utils.RespondWithError(w, code, err.Error())
		return
	}

	loadedVersion := n.Version
	if err := n.AppendMessage(callerID, input.Text, input.Price); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, models.ErrNegotiationClosed) {
			status = http.StatusConflict
		}
		utils.RespondWithError(w, status, err.Error())
		return
	}
	if err := persist(ctx, n, loadedVersion); err != nil {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}

	notify(ctx, "negotiation-message", n)
	utils.RespondWithJSON(w, http.StatusOK, n)
}

// AcceptNegotiation closes the session at an agreed price. Accepting an
// already-accepted session is a conflict, not a retry.
func AcceptNegotiation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	callerID := utils.GetUserIDFromRequest(r)

	var input struct {
		FinalPrice *float64 `json:"finalPrice"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&input) // empty body means "use last offer"
	}

	n, code, err := load(ctx, ps.ByName("id"), callerID)
	if err != nil {
		utils.RespondWithError(w, code, err.Error())
		return
	}

	loadedVersion := n.Version
	if err := n.Accept(callerID, input.FinalPrice); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, models.ErrNegotiationClosed) {
			status = http.StatusConflict
		}
		utils.RespondWithError(w, status, err.Error())
		return
	}
	if err := persist(ctx, n, loadedVersion); err != nil {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}

	notify(ctx, "negotiation-accepted", n)
	utils.RespondWithJSON(w, http.StatusOK, n)
}

// ListForProduct returns the sessions on a product visible to the caller:
// the product's farmer (and admins) see every thread, a customer sees only
// their own.
func ListForProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	callerID := utils.GetUserIDFromRequest(r)

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	filter := bson.M{"productid": productID}
	switch role := middleware.RoleFromRequest(r); role {
	case models.RoleAdmin:
		// unrestricted
	case models.RoleFarmer:
		if product.FarmerID != callerID {
			utils.RespondWithError(w, http.StatusForbidden, "Not your product")
			return
		}
	case models.RoleCustomer:
		filter["customerid"] = callerID
	case models.RoleGuest:
		utils.RespondWithError(w, http.StatusForbidden, "Sign in to view negotiations")
		return
	}

	cursor, err := db.NegotiationCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch negotiations")
		return
	}
	defer cursor.Close(ctx)

	var sessions []models.Negotiation
	if err := cursor.All(ctx, &sessions); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode negotiations")
		return
	}
	if len(sessions) == 0 {
		sessions = []models.Negotiation{}
	}

	utils.RespondWithJSON(w, http.StatusOK, sessions)
}

func notify(ctx context.Context, event string, n *models.Negotiation) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Println("negotiation notify marshal:", err)
		return
	}
	mq.Emit(ctx, mq.Event{
		Name:     event,
		Room:     "farmer:" + n.FarmerID,
		EntityID: n.NegotiationID,
		Payload:  payload,
	})
}
