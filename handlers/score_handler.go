package handlers

import (
	"errors"
	"net/http"

	"github.com/padelpoint/padel-system/middleware"
	"github.com/padelpoint/padel-system/services"
)

type ScoreHandler struct {
	scoreService  services.ScoreService
	ratingService services.RatingService
}

func NewScoreHandler(scoreService services.ScoreService, ratingService services.RatingService) *ScoreHandler {
	return &ScoreHandler{
		scoreService:  scoreService,
		ratingService: ratingService,
	}
}

type confirmRequest struct {
	Action string `json:"action"`
}

type counterRequest struct {
	Action            string  `json:"action"`
	CounterTeam1Score int     `json:"counter_team1_score"`
	CounterTeam2Score int     `json:"counter_team2_score"`
	CounterNotes      *string `json:"counter_notes,omitempty"`
}

func (h *ScoreHandler) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	score, err := h.scoreService.SubmitScore(r.Context(), gameID, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game_score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) GameScoresHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.scoreService.ListGameScores(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) GameScoreStatusHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.scoreService.GetGameScoreStatus(r.Context(), gameID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) ConfirmScoreHandler(w http.ResponseWriter, r *http.Request) {
	scoreID, err := getIDFromURL(r, "scoreID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input confirmRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Action != "CONFIRM" {
		badRequestResponse(w, r, errors.New(`action must be "CONFIRM"`))
		return
	}

	score, err := h.scoreService.Confirm(r.Context(), scoreID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) CounterScoreHandler(w http.ResponseWriter, r *http.Request) {
	scoreID, err := getIDFromURL(r, "scoreID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input counterRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Action != "COUNTER" {
		badRequestResponse(w, r, errors.New(`action must be "COUNTER"`))
		return
	}

	score, err := h.scoreService.Counter(r.Context(), scoreID, userID, services.CounterScoreInput{
		Team1Score: input.CounterTeam1Score,
		Team2Score: input.CounterTeam2Score,
		Notes:      input.CounterNotes,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) AdminResolveScoreHandler(w http.ResponseWriter, r *http.Request) {
	scoreID, err := getIDFromURL(r, "scoreID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ResolveScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	score, err := h.scoreService.AdminResolve(r.Context(), scoreID, adminID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) UserRatingHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = parsePositiveInt(limitStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid limit parameter"))
			return
		}
	}

	entries, err := h.ratingService.ListUserRatingHistory(r.Context(), userID, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rating_history": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
