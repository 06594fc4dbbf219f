package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"mistri/errinfo"
	"mistri/models"
	"mistri/store"
	"mistri/utils"
)

// Handlers serves user profiles. Updates recompute the
// profileComplete flag; the verification flags are only written by the
// OTP flow, never here.
type Handlers struct {
	Store store.Storage
}

func NewHandlers(s store.Storage) *Handlers {
	return &Handlers{Store: s}
}

// Patch carries the user-editable profile fields.
type Patch struct {
	FullName        *string `json:"fullName,omitempty"`
	Mobile          *string `json:"mobile,omitempty"`
	City            *string `json:"city,omitempty"`
	CompanyName     *string `json:"companyName,omitempty"`
	ServiceCategory *string `json:"serviceCategory,omitempty"`
	Experience      *string `json:"experience,omitempty"`
}

// Update applies the patch and recomputes profileComplete.
func (h *Handlers) Update(ctx context.Context, actor string, patch Patch) (*models.User, error) {
	u, err := h.Store.GetUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
		fields["fullName"] = u.FullName
	}
	if patch.Mobile != nil {
		u.Mobile = *patch.Mobile
		fields["mobile"] = u.Mobile
	}
	if patch.City != nil {
		u.City = *patch.City
		fields["city"] = u.City
	}
	if patch.CompanyName != nil {
		u.CompanyName = *patch.CompanyName
		fields["companyName"] = u.CompanyName
	}
	if patch.ServiceCategory != nil {
		u.ServiceCategory = *patch.ServiceCategory
		fields["serviceCategory"] = u.ServiceCategory
	}
	if patch.Experience != nil {
		u.Experience = *patch.Experience
		fields["experience"] = u.Experience
	}
	if len(fields) == 0 {
		return u, nil
	}

	u.ProfileComplete = u.ComputeProfileComplete()
	u.UpdatedAt = time.Now()
	fields["profileComplete"] = u.ProfileComplete
	fields["updated_at"] = u.UpdatedAt

	if err := h.Store.UpdateUserFields(ctx, actor, fields); err != nil {
		return nil, err
	}
	return u, nil
}

func (h *Handlers) GetMyProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	u, err := h.Store.GetUser(r.Context(), actor)
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(u))
}

func (h *Handlers) GetUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	u, err := h.Store.GetUser(r.Context(), ps.ByName("userid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(u))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	u, err := h.Update(r.Context(), actor, patch)
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(u))
}

func toResponse(u *models.User) models.UserProfileResponse {
	return models.UserProfileResponse{
		UserID:          u.UserID,
		Username:        u.Username,
		Email:           u.Email,
		UserType:        u.UserType,
		FullName:        u.FullName,
		Mobile:          u.Mobile,
		City:            u.City,
		CompanyName:     u.CompanyName,
		ServiceCategory: u.ServiceCategory,
		Experience:      u.Experience,
		IsEmailVerified: u.IsEmailVerified,
		IsPhoneVerified: u.IsPhoneVerified,
		ProfileComplete: u.ProfileComplete,
		LastLogin:       u.LastLogin,
	}
}
