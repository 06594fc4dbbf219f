package projects

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

// Handlers exposes the project workflow over HTTP.
type Handlers struct {
	WF *Workflow
}

func NewHandlers(s store.Storage) *Handlers {
	return &Handlers{WF: NewWorkflow(s)}
}

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)

	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	created, err := h.WF.Create(r.Context(), actor, &p)
	if err != nil {
		errinfo.Send(w, err)
		return
	}

	mq.Emit(r.Context(), mq.Event{
		Name:       mq.ProjectCreated,
		EntityType: "project",
		EntityID:   created.ProjectID,
		UserID:     actor,
	})
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.WF.Store.GetProject(r.Context(), ps.ByName("projectid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	filter := store.ProjectFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
	}
	if s := q.Get("status"); s != "" {
		status := models.ProjectStatus(s)
		if !status.Valid() {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
		filter.Status = status
	}

	results, err := h.WF.Store.ListProjects(r.Context(), filter)
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, results)
}

func (h *Handlers) GetMyProjects(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	results, err := h.WF.Store.ListUserProjects(r.Context(), actor)
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, results)
}

func (h *Handlers) EditProject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)

	var patch models.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	p, err := h.WF.Edit(r.Context(), actor, ps.ByName("projectid"), patch)
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handlers) CloseProject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	p, err := h.WF.Close(r.Context(), actor, ps.ByName("projectid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handlers) ReopenProject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	p, err := h.WF.Reopen(r.Context(), actor, ps.ByName("projectid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handlers) MarkCompleted(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	p, err := h.WF.MarkCompleted(r.Context(), actor, ps.ByName("projectid"))
	if err != nil {
		errinfo.Send(w, err)
		return
	}

	mq.Emit(r.Context(), mq.Event{
		Name:       mq.ProjectCompleted,
		EntityType: "project",
		EntityID:   p.ProjectID,
		UserID:     p.AcceptedContractorID,
	})
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := utils.GetUserIDFromRequest(r)
	if err := h.WF.Delete(r.Context(), actor, ps.ByName("projectid")); err != nil {
		errinfo.Send(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Project deleted"})
}
