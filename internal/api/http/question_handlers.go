package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ascentprep/ascentprep/internal/rbac"
	"github.com/ascentprep/ascentprep/internal/testbank"
)

// GET /tests?series_id=...&limit=50&offset=0: active tests only for
// non-admin callers.
func ListTestsHandler(bank testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := rbac.RoleFromContext(r.Context()) == "admin"
		list, err := bank.ListTests(r.Context(), testbank.ListOpts{
			SeriesID:   r.URL.Query().Get("series_id"),
			ActiveOnly: !admin,
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []testbank.Test{}
		}
		writeJSON(w, list)
	}
}

// GET /tests/{testID}/questions: the question bank for a test. Correctness
// flags, explanations and fill-blank answer texts are stripped for everyone
// but admins.
func ListTestQuestionsHandler(bank testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := bank.GetQuestions(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if rbac.RoleFromContext(r.Context()) != "admin" {
			for i := range qs {
				qs[i] = qs[i].Sanitize()
			}
		}
		if qs == nil {
			qs = []testbank.Question{}
		}
		writeJSON(w, qs)
	}
}

// GET /questions/{questionID}: a single question with options.
func GetQuestionHandler(bank testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := bank.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if rbac.RoleFromContext(r.Context()) != "admin" {
			q = q.Sanitize()
		}
		writeJSON(w, q)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
