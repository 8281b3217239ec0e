package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/analysis"
	"server/internal/domain"
	"server/internal/middleware"
)

// AnalysisLinkedIn submits a LinkedIn profile analysis for the caller. The
// external call runs inline; the response carries the job's terminal state.
func (a *App) AnalysisLinkedIn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	country := middleware.CountryFromContext(r.Context())

	sub, err := a.Analysis.SubmitProfileAnalysis(r.Context(), userID, country)
	if err != nil {
		a.analysisError(w, err)
		return
	}
	a.json(w, http.StatusOK, submissionPayload(sub))
}

// AnalysisInspiration submits a career-inspiration comparison against a peer.
func (a *App) AnalysisInspiration(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	country := middleware.CountryFromContext(r.Context())
	peerID := chi.URLParam(r, "peerId")

	sub, err := a.Analysis.SubmitInspiration(r.Context(), userID, peerID, country)
	if err != nil {
		a.analysisError(w, err)
		return
	}
	a.json(w, http.StatusOK, submissionPayload(sub))
}

// AnalysisGet polls a previously submitted job, scoped to the caller.
func (a *App) AnalysisGet(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	job, err := a.Analysis.Get(r.Context(), id, userID)
	if err != nil {
		a.analysisError(w, err)
		return
	}

	body := map[string]any{
		"success": job.Status != domain.AnalysisStatusFailed,
		"status":  job.Status,
	}
	switch job.Status {
	case domain.AnalysisStatusCompleted:
		body["result"] = jobResult(job)
	case domain.AnalysisStatusFailed:
		body["error"] = job.AnalysisText
		body["fallback_suggestions"] = analysis.FallbackSuggestions()
	}
	a.json(w, http.StatusOK, body)
}

func (a *App) analysisError(w http.ResponseWriter, err error) {
	var verr *analysis.ValidationError
	switch {
	case errors.As(err, &verr):
		a.json(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "validation failed",
			"details": verr.Details,
		})
	case errors.Is(err, domain.ErrNotFound):
		a.fail(w, http.StatusNotFound, "not found")
	default:
		a.Logger.Error().Err(err).Msg("analysis: request failed")
		a.fail(w, http.StatusInternalServerError, "analysis request failed")
	}
}

// submissionPayload renders a submit outcome. A failed gateway call is still a
// well-formed response: the job exists in failed state and the caller gets the
// static suggestions instead of a bare error.
func submissionPayload(sub *analysis.Submission) map[string]any {
	if sub.Status == domain.AnalysisStatusFailed {
		return map[string]any{
			"success":              false,
			"status":               sub.Status,
			"job_id":               sub.JobID,
			"error":                sub.FailureReason,
			"fallback_suggestions": sub.FallbackSuggestions,
		}
	}
	return map[string]any{
		"success": true,
		"status":  sub.Status,
		"job_id":  sub.JobID,
		"result":  jobResult(sub.Job),
	}
}

func jobResult(job *domain.AnalysisJob) map[string]any {
	return map[string]any{
		"analysis_type":   job.Kind,
		"recommendations": job.Recommendations,
		"analysis_text":   job.AnalysisText,
		"ai_provider":     job.AIProvider,
		"meta":            job.Meta,
	}
}
