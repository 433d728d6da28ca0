package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	api "github.com/ascentprep/ascentprep/internal/api/http"
	"github.com/ascentprep/ascentprep/internal/attempt"
	authmw "github.com/ascentprep/ascentprep/internal/auth/middleware"
	"github.com/ascentprep/ascentprep/internal/catalog"
	"github.com/ascentprep/ascentprep/internal/config"
	"github.com/ascentprep/ascentprep/internal/db"
	"github.com/ascentprep/ascentprep/internal/logger"
	"github.com/ascentprep/ascentprep/internal/rbac"
	"github.com/ascentprep/ascentprep/internal/scoring"
	"github.com/ascentprep/ascentprep/internal/siteconfig"
	"github.com/ascentprep/ascentprep/internal/testbank"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}

	bank := testbank.NewSQLStore(dbh)
	attempts := attempt.NewSQLStore(dbh)
	svc := attempt.NewService(bank, attempts, scoring.NewDefaultGrader(), log)
	cat := catalog.NewSQLStore(dbh)
	siteCfg := siteconfig.NewStore(dbh)
	authSvc := authmw.NewAuthService(cfg.AuthHMACSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", authmw.LoginHandler(authSvc, dbh, cfg.AdminUser, cfg.AdminPassHash))

	// Public catalog and question bank (responses vary by role, so claims
	// are attached when present).
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.OptionalJWT(authSvc))
		pr.Get("/tests", api.ListTestsHandler(bank))
		pr.Get("/tests/{testID}/questions", api.ListTestQuestionsHandler(bank))
		pr.Get("/questions/{questionID}", api.GetQuestionHandler(bank))
		pr.Get("/courses", api.ListCoursesHandler(cat))
		pr.Get("/test-series", api.ListSeriesHandler(cat))
		pr.Get("/testimonials", api.ListTestimonialsHandler(cat))
		pr.Get("/faqs", api.ListFAQsHandler(cat))
		pr.Get("/site-config/{key}", api.GetSiteConfigHandler(siteCfg))
	})

	// Candidate flow + admin write path (JWT -> role in context -> RBAC).
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))

		pr.With(rbac.Require("attempt:create")).
			Post("/tests/{testID}/start", api.StartAttemptHandler(svc))
		pr.With(rbac.Require("attempt:save")).
			Post("/test-attempts/{attemptID}/submit-answer", api.SubmitAnswerHandler(svc))
		pr.With(rbac.Require("attempt:submit")).
			Post("/test-attempts/{attemptID}/complete", api.CompleteAttemptHandler(svc))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/test-attempts/{attemptID}", api.GetAttemptHandler(svc))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/users/test-attempts", api.ListMyAttemptsHandler(svc))

		pr.With(rbac.Require("content:manage")).
			Post("/admin/tests", api.UploadTestHandler(bank))
		pr.With(rbac.Require("content:manage")).
			Post("/admin/courses", api.UpsertCourseHandler(cat))
		pr.With(rbac.Require("content:manage")).
			Post("/admin/test-series", api.UpsertSeriesHandler(cat))
		pr.With(rbac.Require("content:manage")).
			Post("/admin/testimonials", api.UpsertTestimonialHandler(cat))
		pr.With(rbac.Require("content:manage")).
			Post("/admin/faqs", api.UpsertFAQHandler(cat))
		pr.With(rbac.Require("config:manage")).
			Put("/admin/site-config/{key}", api.SetSiteConfigHandler(siteCfg))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("db", cfg.DBDriver))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
