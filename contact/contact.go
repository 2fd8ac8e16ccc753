package contact

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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmitMessage accepts a public contact-form submission.
func SubmitMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var msg models.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and message are required")
		return
	}

	msg.ContactID = "c" + utils.GenerateID(12)
	msg.Status = models.ContactNew
	msg.CreatedAt = time.Now()

	if _, err := db.ContactCollection.InsertOne(ctx, msg); err != nil {
		log.Println("SubmitMessage insert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit message")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, msg)
}

// ListMessages returns contact messages for admins, with ?role=, ?status=
// and free text ?q= filters over name/email/subject/message.
func ListMessages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	q := r.URL.Query()
	if role := q.Get("role"); role != "" {
		filter["role"] = role
	}
	if status := q.Get("status"); status != "" {
		filter["status"] = status
	}
	if text := q.Get("q"); text != "" {
		re := primitive.Regex{Pattern: text, Options: "i"}
		filter["$or"] = []bson.M{
			{"name": re},
			{"email": re},
			{"subject": re},
			{"message": re},
		}
	}

	cursor, err := db.ContactCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	defer cursor.Close(ctx)

	var messages []models.ContactMessage
	if err := cursor.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode messages")
		return
	}
	if len(messages) == 0 {
		messages = []models.ContactMessage{}
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

// UpdateMessageStatus moves a message between new/read/resolved.
func UpdateMessageStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	status, err := models.ParseContactStatus(input.Status)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := db.ContactCollection.UpdateOne(ctx,
		bson.M{"contactid": ps.ByName("id")},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update message")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Message not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Status updated"})
}
