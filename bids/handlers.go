package bids

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mistri/errinfo"
	"mistri/models"
	"mistri/mq"
	"mistri/store"
	"mistri/utils"
)

// Handlers exposes the bid workflow over HTTP.
type Handlers struct {
	WF *Workflow
}

func NewHandlers(s store.Storage) *Handlers {
	return &Handlers{WF: NewWorkflow(s)}
}

func (h *Handlers) SubmitBid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)

	var b models.Bid
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	created, err := h.WF.Submit(r.Context(), actor, ps.ByName("projectid"), &b)
	if err != nil {
		errinfo.Send(w, err)
		return
	}

	mq.Emit(r.Context(), mq.Event{
		Name:       mq.BidSubmitted,
		EntityType: "bid",
		EntityID:   created.BidID,
		UserID:     actor,
	})
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handlers) AcceptBid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	b, err := h.WF.Accept(r.Context(), actor, ps.ByName("bidid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}

	mq.Emit(r.Context(), mq.Event{
		Name:       mq.BidAccepted,
		EntityType: "bid",
		EntityID:   b.BidID,
		UserID:     b.ContractorID,
	})
	utils.RespondWithJSON(w, http.StatusOK, b)
}

func (h *Handlers) RejectBid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	b, err := h.WF.Reject(r.Context(), actor, ps.ByName("bidid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}

	mq.Emit(r.Context(), mq.Event{
		Name:       mq.BidRejected,
		EntityType: "bid",
		EntityID:   b.BidID,
		UserID:     b.ContractorID,
	})
	utils.RespondWithJSON(w, http.StatusOK, b)
}

func (h *Handlers) ShortlistBid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	b, err := h.WF.Shortlist(r.Context(), actor, ps.ByName("bidid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

func (h *Handlers) WithdrawBid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	b, err := h.WF.Withdraw(r.Context(), actor, ps.ByName("bidid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

func (h *Handlers) GetProjectBids(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	results, err := h.WF.ListForProject(r.Context(), actor, ps.ByName("projectid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, results)
}

func (h *Handlers) GetMyBids(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	results, err := h.WF.Store.ListContractorBids(r.Context(), actor)
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, results)
}
