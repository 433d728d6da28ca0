package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ascentprep/ascentprep/internal/attempt"
	authmw "github.com/ascentprep/ascentprep/internal/auth/middleware"
	"github.com/ascentprep/ascentprep/internal/rbac"
	"github.com/ascentprep/ascentprep/internal/scoring"
	"github.com/ascentprep/ascentprep/internal/testbank"
)

func newTestServer(t *testing.T) (http.Handler, *authmw.AuthService, testbank.Store) {
	t.Helper()
	bank := testbank.NewInMemoryStore()
	svc := attempt.NewService(bank, attempt.NewInMemoryStore(), scoring.NewDefaultGrader(), nil)
	auth := authmw.NewAuthService("test-secret")

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.OptionalJWT(auth))
		pr.Get("/tests", ListTestsHandler(bank))
		pr.Get("/tests/{testID}/questions", ListTestQuestionsHandler(bank))
		pr.Get("/questions/{questionID}", GetQuestionHandler(bank))
	})
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(auth))
		pr.With(rbac.Require("attempt:create")).
			Post("/tests/{testID}/start", StartAttemptHandler(svc))
		pr.With(rbac.Require("attempt:save")).
			Post("/test-attempts/{attemptID}/submit-answer", SubmitAnswerHandler(svc))
		pr.With(rbac.Require("attempt:submit")).
			Post("/test-attempts/{attemptID}/complete", CompleteAttemptHandler(svc))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/test-attempts/{attemptID}", GetAttemptHandler(svc))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/users/test-attempts", ListMyAttemptsHandler(svc))
		pr.With(rbac.Require("content:manage")).
			Post("/admin/tests", UploadTestHandler(bank))
	})
	return r, auth, bank
}

func seedBank(t *testing.T, bank testbank.Store) {
	t.Helper()
	err := bank.PutTest(context.Background(), testbank.Test{
		ID: "t1", Title: "Mock Test 1", DurationMin: 30,
		TotalMarks: 10, NegativeMarking: 0.5, Active: true,
	}, []testbank.Question{
		{ID: "q1", Type: testbank.SingleChoice, Text: "2+2?", Marks: 5,
			Options: []testbank.Option{
				{ID: "o1", Text: "3"}, {ID: "o2", Text: "4", IsCorrect: true},
			},
			Explanation: "basic addition"},
		{ID: "q2", Type: testbank.SingleChoice, Text: "3+3?", Marks: 5,
			Options: []testbank.Option{
				{ID: "o3", Text: "6", IsCorrect: true}, {ID: "o4", Text: "9"},
			}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestAttemptEndpoints(t *testing.T) {
	h, auth, bank := newTestServer(t)
	seedBank(t, bank)
	student, _ := auth.IssueJWT("u1", "student")
	other, _ := auth.IssueJWT("u2", "student")

	if rec := do(t, h, "POST", "/tests/t1/start", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", rec.Code)
	}

	rec := do(t, h, "POST", "/tests/t1/start", student, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start: %d %s", rec.Code, rec.Body)
	}
	a := decode[attempt.TestAttempt](t, rec)
	if a.ID == "" || a.Completed {
		t.Fatalf("attempt: %+v", a)
	}

	// starting again resumes
	rec = do(t, h, "POST", "/tests/t1/start", student, nil)
	if got := decode[attempt.TestAttempt](t, rec); got.ID != a.ID {
		t.Fatalf("restart must resume: %s vs %s", got.ID, a.ID)
	}

	submit := func(tok, qid, ans string) *httptest.ResponseRecorder {
		return do(t, h, "POST", "/test-attempts/"+a.ID+"/submit-answer", tok,
			map[string]string{"question_id": qid, "answer": ans})
	}

	rec = submit(student, "q1", "o2")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}
	if ua := decode[attempt.UserAnswer](t, rec); !ua.IsCorrect || ua.MarksObtained != 5 {
		t.Fatalf("scored answer: %+v", ua)
	}

	if rec := submit(student, "q1", "bogus"); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown option: want 400, got %d", rec.Code)
	}
	if rec := submit(student, "", "o2"); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing question_id: want 400, got %d", rec.Code)
	}
	if rec := submit(other, "q1", "o2"); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign attempt: want 403, got %d", rec.Code)
	}

	rec = do(t, h, "POST", "/test-attempts/"+a.ID+"/complete", student, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", rec.Code, rec.Body)
	}
	done := decode[attempt.TestAttempt](t, rec)
	if !done.Completed || done.Score == nil || *done.Score != 5 || *done.Percentage != 50 {
		t.Fatalf("finalized attempt: %+v", done)
	}

	if rec := submit(student, "q2", "o3"); rec.Code != http.StatusConflict {
		t.Fatalf("submit after complete: want 409, got %d", rec.Code)
	}

	rec = do(t, h, "GET", "/test-attempts/"+a.ID, student, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: %d %s", rec.Code, rec.Body)
	}
	rep := decode[attempt.Report](t, rec)
	if len(rep.Questions) != 2 || rep.RemainingSec != nil {
		t.Fatalf("report: %+v", rep)
	}
	if !strings.Contains(rec.Body.String(), "basic addition") {
		t.Fatal("completed report must include explanations")
	}

	if rec := do(t, h, "GET", "/test-attempts/missing", student, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown attempt: want 404, got %d", rec.Code)
	}

	rec = do(t, h, "GET", "/users/test-attempts", student, nil)
	if list := decode[[]attempt.TestAttempt](t, rec); len(list) != 1 {
		t.Fatalf("my attempts: %+v", list)
	}
}

func TestQuestionSanitizationOverHTTP(t *testing.T) {
	h, auth, bank := newTestServer(t)
	seedBank(t, bank)
	admin, _ := auth.IssueJWT("a1", "admin")

	rec := do(t, h, "GET", "/tests/t1/questions", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("public questions: %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "is_correct") || strings.Contains(body, "basic addition") {
		t.Fatalf("answer key leaked to public: %s", body)
	}

	rec = do(t, h, "GET", "/tests/t1/questions", admin, nil)
	if !strings.Contains(rec.Body.String(), "is_correct") {
		t.Fatal("admin view must keep correctness flags")
	}

	rec = do(t, h, "GET", "/questions/q1", "", nil)
	if strings.Contains(rec.Body.String(), "is_correct") {
		t.Fatal("single question leaked the key")
	}
}

func TestAdminUploadRBAC(t *testing.T) {
	h, auth, _ := newTestServer(t)
	student, _ := auth.IssueJWT("u1", "student")
	admin, _ := auth.IssueJWT("a1", "admin")

	payload := map[string]any{
		"test": map[string]any{
			"title": "Uploaded", "duration_min": 20, "total_marks": 5, "active": true,
		},
		"questions": []map[string]any{
			{"type": "single_choice", "text": "Q", "marks": 5, "options": []map[string]any{
				{"text": "a"}, {"text": "b", "is_correct": true},
			}},
		},
	}

	if rec := do(t, h, "POST", "/admin/tests", student, payload); rec.Code != http.StatusForbidden {
		t.Fatalf("student upload: want 403, got %d", rec.Code)
	}

	rec := do(t, h, "POST", "/admin/tests", admin, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin upload: %d %s", rec.Code, rec.Body)
	}
	id := decode[map[string]string](t, rec)["id"]
	if id == "" {
		t.Fatal("upload must return the assigned id")
	}

	// structural validation surfaces as 400
	bad := map[string]any{
		"test": map[string]any{"title": "Broken", "duration_min": 20, "total_marks": 5},
		"questions": []map[string]any{
			{"type": "single_choice", "text": "Q", "marks": 5},
		},
	}
	if rec := do(t, h, "POST", "/admin/tests", admin, bad); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid test: want 400, got %d", rec.Code)
	}

	// students list only active tests; the uploaded one is visible
	rec = do(t, h, "GET", "/tests", student, nil)
	if list := decode[[]testbank.Test](t, rec); len(list) != 1 || list[0].ID != id {
		t.Fatalf("list after upload: %+v", list)
	}
}
