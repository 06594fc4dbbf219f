package chats

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mistri/db"
	"mistri/models"
	"mistri/utils"
)

// StartChat opens (or returns) the conversation between the requesting
// user and another participant about a project.
func StartChat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		ProjectID string `json:"projectId"`
		WithUser  string `json:"withUser"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.ProjectID == "" || input.WithUser == "" || input.WithUser == userID {
		utils.RespondWithError(w, http.StatusBadRequest, "projectId and a different withUser are required")
		return
	}

	ctx := r.Context()

	var existing models.Chat
	err := db.ChatsCollection.FindOne(ctx, bson.M{
		"projectId": input.ProjectID,
		"users":     bson.M{"$all": []string{userID, input.WithUser}},
	}).Decode(&existing)
	if err == nil {
		utils.RespondWithJSON(w, http.StatusOK, existing)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("DB error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	chat := models.Chat{
		ChatID:    uuid.NewString(),
		ProjectID: input.ProjectID,
		Users:     []string{userID, input.WithUser},
		CreatedAt: time.Now(),
	}
	if _, err := db.ChatsCollection.InsertOne(ctx, chat); err != nil {
		log.Printf("Insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to start chat")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, chat)
}

func GetMyChats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	ctx := r.Context()

	cursor, err := db.ChatsCollection.Find(ctx,
		bson.M{"users": bson.M{"$in": []string{userID}}},
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		log.Printf("DB error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode chats")
		return
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	utils.RespondWithJSON(w, http.StatusOK, chats)
}

func GetChatMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	chatID := ps.ByName("chatid")
	ctx := r.Context()

	if !isParticipant(ctx, chatID, userID) {
		utils.RespondWithError(w, http.StatusNotFound, "Chat not found")
		return
	}

	cursor, err := db.MessagesCollection.Find(ctx,
		bson.M{"chatid": chatID},
		options.Find().SetSort(bson.M{"createdAt": 1}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode messages")
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"chatid": chatID, "messages": messages})
}

// SendMessage persists a message and, when a hub is wired, broadcasts
// it to the chat room.
func SendMessage(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		userID := utils.GetUserIDFromRequest(r)
		chatID := ps.ByName("chatid")
		ctx := r.Context()

		var input struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || strings.TrimSpace(input.Text) == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Message text required")
			return
		}

		if !isParticipant(ctx, chatID, userID) {
			utils.RespondWithError(w, http.StatusNotFound, "Chat not found")
			return
		}

		msg := models.Message{
			MessageID: uuid.NewString(),
			ChatID:    chatID,
			Sender:    userID,
			Text:      input.Text,
			CreatedAt: time.Now(),
		}
		if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
			log.Printf("Insert error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
			return
		}

		if hub != nil {
			if data, err := json.Marshal(msg); err == nil {
				hub.Broadcast(chatID, data)
			}
		}

		utils.RespondWithJSON(w, http.StatusCreated, msg)
	}
}

// WebSocketHandler joins the caller to a chat room for live messages.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		chatID := ps.ByName("chatid")
		userID := utils.GetUserIDFromRequest(r)

		if !isParticipant(r.Context(), chatID, userID) {
			http.Error(w, "Chat not found", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   chatID,
			UserID: userID,
		}
		hub.register <- client

		go client.writePump()
		go client.readPump(hub, func(c *Client, data []byte) {
			var input struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(data, &input); err != nil || strings.TrimSpace(input.Text) == "" {
				return
			}

			msg := models.Message{
				MessageID: uuid.NewString(),
				ChatID:    c.Room,
				Sender:    c.UserID,
				Text:      input.Text,
				CreatedAt: time.Now(),
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
				log.Printf("Insert error: %v", err)
				return
			}
			if out, err := json.Marshal(msg); err == nil {
				hub.Broadcast(c.Room, out)
			}
		})
	}
}

func isParticipant(ctx context.Context, chatID, userID string) bool {
	if userID == "" {
		return false
	}
	err := db.ChatsCollection.FindOne(ctx, bson.M{
		"chatid": chatID,
		"users":  bson.M{"$in": []string{userID}},
	}).Err()
	return err == nil
}
