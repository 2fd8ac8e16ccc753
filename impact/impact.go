package impact

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"farmfork/db"
	"farmfork/models"
	"farmfork/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const impactPicDir = "static/impactpic"

// GetStories returns all impact stories, newest first.
func GetStories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.ImpactCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch stories")
		return
	}
	defer cursor.Close(ctx)

	var stories []models.ImpactStory
	if err := cursor.All(ctx, &stories); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode stories")
		return
	}
	if len(stories) == 0 {
		stories = []models.ImpactStory{}
	}

	utils.RespondWithJSON(w, http.StatusOK, stories)
}

// CreateStory accepts either plain JSON or a multipart form whose "stats"
// field carries a JSON array as a string and whose optional "image" field
// carries the photo.
func CreateStory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var story models.ImpactStory

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		story.Title = r.FormValue("title")
		story.Role = r.FormValue("role")
		story.Name = r.FormValue("name")
		story.Location = r.FormValue("location")
		story.Quote = r.FormValue("quote")

		if statsRaw := r.FormValue("stats"); statsRaw != "" {
			if err := json.Unmarshal([]byte(statsRaw), &story.Stats); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "stats must be a JSON array")
				return
			}
		}

		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			if !utils.ValidateImageFileType(w, header) {
				return
			}
			path, err := utils.SaveImageWithThumb(file, impactPicDir, "/static/impactpic")
			if err != nil {
				log.Println("impact image save:", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
				return
			}
			story.ImagePath = path
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&story); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}
	}

	if story.Title == "" || story.Name == "" || story.Quote == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title, name and quote are required")
		return
	}

	story.StoryID = "s" + utils.GenerateID(12)
	story.CreatedAt = time.Now()

	if _, err := db.ImpactCollection.InsertOne(ctx, story); err != nil {
		log.Println("CreateStory insert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create story")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, story)
}
