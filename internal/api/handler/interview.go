package handler

import (
	"errors"
	"net/http"

	"github.com/Rrens/ai-interviewer/internal/api/response"
	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/Rrens/ai-interviewer/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InterviewHandler handles interview endpoints
type InterviewHandler struct {
	interviewService *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewService *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

// Create starts an interview and returns the opening question
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInterviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.interviewService.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Failed to create interview")
		return
	}

	response.Created(w, resp)
}

// Get returns the interview state
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(w, r)
	if !ok {
		return
	}

	summary, err := h.interviewService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to get interview")
		return
	}

	response.OK(w, summary)
}

// Respond submits a candidate answer and returns the next interviewer turn
func (h *InterviewHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(w, r)
	if !ok {
		return
	}

	var req domain.CandidateResponseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	turn, err := h.interviewService.Respond(r.Context(), id, req.Message)
	if err != nil {
		writeError(w, r, err, "Failed to process response")
		return
	}

	response.OK(w, turn)
}

// Transcript returns the full conversation so far
func (h *InterviewHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(w, r)
	if !ok {
		return
	}

	transcript, err := h.interviewService.Transcript(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to get transcript")
		return
	}

	response.OK(w, transcript)
}

// SubmitCode records a code execution result
func (h *InterviewHandler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(w, r)
	if !ok {
		return
	}

	var req domain.CodeSubmissionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.interviewService.SubmitCode(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, "Failed to record submission")
		return
	}

	response.Created(w, result)
}

// Complete ends the interview
func (h *InterviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := interviewID(w, r)
	if !ok {
		return
	}

	summary, err := h.interviewService.Complete(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to complete interview")
		return
	}

	response.OK(w, summary)
}

func interviewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "interviewID"))
	if err != nil {
		response.BadRequest(w, "Invalid interview ID")
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors to status codes; anything unexpected is logged and hidden
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInterviewNotFound):
		response.NotFound(w, "Interview not found")
	case errors.Is(err, domain.ErrInterviewComplete):
		response.BadRequest(w, "Interview is already complete")
	case errors.Is(err, domain.ErrPhaseUnsupported), errors.Is(err, domain.ErrInvalidTransition):
		response.Conflict(w, err.Error())
	default:
		log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("interview_id", chi.URLParam(r, "interviewID")).
			Msg(fallback)
		response.InternalError(w, fallback)
	}
}
