package handler

import (
	"net/http"

	"github.com/horizons-app/horizons/internal/render"
	"github.com/horizons-app/horizons/internal/service"
	"github.com/horizons-app/horizons/internal/session"
)

type joinTeamRequest struct {
	InviteCode string `json:"invite_code"`
}

type TeamHandler struct {
	teamService *service.TeamService
}

func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.Teams(r.Context(), session.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err, "list teams")
		return
	}

	render.Data(w, http.StatusOK, teams)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.Team(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "get team")
		return
	}

	render.Data(w, http.StatusOK, team)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.TeamInput
	if render.Decode(w, r, &in) != nil {
		return
	}

	team, err := h.teamService.Create(r.Context(), session.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err, "create team")
		return
	}

	render.Data(w, http.StatusCreated, team)
}

func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinTeamRequest
	if render.Decode(w, r, &req) != nil {
		return
	}

	team, err := h.teamService.Join(r.Context(), session.UserID(r.Context()), req.InviteCode)
	if err != nil {
		writeError(w, r, err, "join team")
		return
	}

	render.Data(w, http.StatusOK, team)
}

func (h *TeamHandler) Leave(w http.ResponseWriter, r *http.Request) {
	err := h.teamService.Leave(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "leave team")
		return
	}

	render.NoContent(w)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.teamService.Delete(r.Context(), session.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "delete team")
		return
	}

	render.NoContent(w)
}
