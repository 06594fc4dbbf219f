package contact

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mistri/db"
	"mistri/models"
	"mistri/utils"
)

// SubmitContactMessage stores a message from the public contact form.
func SubmitContactMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Body) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and message are required")
		return
	}

	msg := models.ContactMessage{
		ContactID: uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Body:      input.Body,
		CreatedAt: time.Now(),
	}
	if _, err := db.ContactMessagesCollection.InsertOne(r.Context(), msg); err != nil {
		log.Printf("Insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save message")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "message": "Thanks, we will get back to you."})
}

// GetContactMessages lists submitted messages, newest first.
func GetContactMessages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	cursor, err := db.ContactMessagesCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(100))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	var messages []models.ContactMessage
	if err := cursor.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode messages")
		return
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	utils.RespondWithJSON(w, http.StatusOK, messages)
}
