package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ascentprep/ascentprep/internal/catalog"
	"github.com/ascentprep/ascentprep/internal/siteconfig"
	"github.com/ascentprep/ascentprep/internal/testbank"
)

// Admin content write path. These endpoints sit behind the content:manage
// permission; the editing UI itself is a separate frontend.

type uploadTestReq struct {
	Test      testbank.Test       `json:"test"`
	Questions []testbank.Question `json:"questions"`
}

// POST /admin/tests: create or replace a test with its full question set.
func UploadTestHandler(bank testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadTestReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Test.ID == "" {
			req.Test.ID = uuid.NewString()
		}
		for i := range req.Questions {
			if req.Questions[i].ID == "" {
				req.Questions[i].ID = uuid.NewString()
			}
			for j := range req.Questions[i].Options {
				if req.Questions[i].Options[j].ID == "" {
					req.Questions[i].Options[j].ID = uuid.NewString()
				}
			}
		}
		if err := bank.PutTest(r.Context(), req.Test, req.Questions); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"id": req.Test.ID})
	}
}

// POST /admin/courses, /admin/test-series, /admin/testimonials, /admin/faqs
// share the same upsert shape.

func UpsertCourseHandler(store *catalog.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c catalog.Course
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if err := store.PutCourse(r.Context(), c); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, c)
	}
}

func UpsertSeriesHandler(store *catalog.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ts catalog.TestSeries
		if err := json.NewDecoder(r.Body).Decode(&ts); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if ts.ID == "" {
			ts.ID = uuid.NewString()
		}
		if err := store.PutSeries(r.Context(), ts); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, ts)
	}
}

func UpsertTestimonialHandler(store *catalog.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t catalog.Testimonial
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if err := store.PutTestimonial(r.Context(), t); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, t)
	}
}

func UpsertFAQHandler(store *catalog.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f catalog.FAQ
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if err := store.PutFAQ(r.Context(), f); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, f)
	}
}

// PUT /admin/site-config/{key}: body is the raw JSON value.
func SetSiteConfigHandler(store *siteconfig.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		if err := store.Set(r.Context(), chi.URLParam(r, "key"), body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
