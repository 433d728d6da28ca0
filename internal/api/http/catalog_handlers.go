package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ascentprep/ascentprep/internal/catalog"
	"github.com/ascentprep/ascentprep/internal/siteconfig"
)

// Public marketing/catalog surfaces. Active rows only.

func ListCoursesHandler(store *catalog.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListCourses(r.Context(), true)
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []catalog.Course{}
		}
		writeJSON(w, list)
	}
}

func ListSeriesHandler(store *catalog.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListSeries(r.Context(), true)
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []catalog.TestSeries{}
		}
		writeJSON(w, list)
	}
}

func ListTestimonialsHandler(store *catalog.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListTestimonials(r.Context(), true)
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []catalog.Testimonial{}
		}
		writeJSON(w, list)
	}
}

func ListFAQsHandler(store *catalog.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListFAQs(r.Context(), true)
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []catalog.FAQ{}
		}
		writeJSON(w, list)
	}
}

// GET /site-config/{key}: raw JSON value, served from the process cache.
func GetSiteConfigHandler(store *siteconfig.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := store.Get(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(v)
	}
}
