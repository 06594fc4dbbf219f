package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"mistri/db"
	"mistri/rdx"
	"mistri/utils"
)

const otpTTL = 10 * time.Minute

// RequestOTPHandler issues a one-time code for email or mobile
// verification. Delivery (mail/SMS gateway) is left to deployment;
// the code is stored in Redis keyed by channel and target.
func RequestOTPHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Channel string `json:"channel"` // "email" or "phone"
		Target  string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if (input.Channel != "email" && input.Channel != "phone") || input.Target == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "channel and target are required")
		return
	}

	otp := utils.GenerateRandomDigitString(6)
	if err := rdx.RdxSet("otp:"+input.Channel+":"+input.Target, otp, otpTTL); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to issue OTP")
		return
	}
	log.Printf("OTP issued for %s %s", input.Channel, input.Target)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "OTP sent"})
}

// VerifyOTPHandler checks a submitted code and flips the matching
// verification flag on the user document.
func VerifyOTPHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Channel string `json:"channel"`
		Target  string `json:"target"`
		OTP     string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	key := "otp:" + input.Channel + ":" + input.Target
	storedOTP, err := rdx.RdxGet(key)
	if err != nil || storedOTP != input.OTP {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return
	}

	var filter, update bson.M
	switch input.Channel {
	case "email":
		filter = bson.M{"email": input.Target}
		update = bson.M{"$set": bson.M{"isEmailVerified": true}}
	case "phone":
		filter = bson.M{"mobile": input.Target}
		update = bson.M{"$set": bson.M{"isPhoneVerified": true}}
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown channel")
		return
	}

	if _, err := db.UserCollection.UpdateOne(context.TODO(), filter, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to verify user")
		return
	}

	rdx.RdxDel(key)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Verified successfully"})
}
