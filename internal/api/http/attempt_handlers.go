package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ascentprep/ascentprep/internal/attempt"
	authmw "github.com/ascentprep/ascentprep/internal/auth/middleware"
)

// POST /tests/{testID}/start: start or resume an attempt.
func StartAttemptHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		a, err := svc.Start(r.Context(), userID, chi.URLParam(r, "testID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, a)
	}
}

// POST /test-attempts/{attemptID}/submit-answer: record one answer.
// The answer string is an option id for single-choice, literal text
// otherwise; an empty string clears the answer.
func SubmitAnswerHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID string `json:"question_id"`
			Answer     string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuestionID == "" {
			http.Error(w, "question_id required", http.StatusBadRequest)
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		ua, err := svc.SubmitAnswer(r.Context(), userID, chi.URLParam(r, "attemptID"), req.QuestionID, req.Answer)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, ua)
	}
}

// POST /test-attempts/{attemptID}/complete: finalize; idempotent 200 when
// already completed.
func CompleteAttemptHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		a, err := svc.Complete(r.Context(), userID, chi.URLParam(r, "attemptID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, a)
	}
}

// GET /test-attempts/{attemptID}: the full report.
func GetAttemptHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		rep, err := svc.Get(r.Context(), userID, chi.URLParam(r, "attemptID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, rep)
	}
}

// GET /users/test-attempts: the caller's attempts, newest first.
func ListMyAttemptsHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		list, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []attempt.TestAttempt{}
		}
		writeJSON(w, list)
	}
}
