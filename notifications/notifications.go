package notifications

import (
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mistri/db"
	"mistri/models"
	"mistri/utils"
)

// GetMyNotifications lists the caller's notifications, newest first.
func GetMyNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	ctx := r.Context()

	cursor, err := db.NotificationsCollection.Find(ctx,
		bson.M{"userid": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50),
	)
	if err != nil {
		log.Printf("DB error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	var results []models.Notification
	if err := cursor.All(ctx, &results); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode notifications")
		return
	}
	if results == nil {
		results = []models.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, results)
}

// MarkNotificationRead flags one of the caller's notifications as read.
func MarkNotificationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	res, err := db.NotificationsCollection.UpdateOne(r.Context(),
		bson.M{"notificationid": ps.ByName("notificationid"), "userid": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
