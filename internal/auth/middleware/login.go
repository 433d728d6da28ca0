package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// POST /auth/login  { "username": "...", "password": "..." }
// Verifies against the users table; an env-provisioned admin account may be
// supplied for bootstrap (adminUser/adminHash empty disables it).
func LoginHandler(a *AuthService, db *sql.DB, adminUser, adminHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password required", http.StatusBadRequest)
			return
		}

		sub, role, ok := "", "", false
		var id, hash, dbRole string
		err := db.QueryRowContext(r.Context(),
			`SELECT id, password_hash, role FROM users WHERE username=$1`, req.Username).
			Scan(&id, &hash, &dbRole)
		switch {
		case err == nil:
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) == nil {
				sub, role, ok = id, dbRole, true
			}
		case errors.Is(err, sql.ErrNoRows):
			// fall through to the bootstrap admin
		default:
			http.Error(w, "login failed", http.StatusInternalServerError)
			return
		}

		if !ok && adminUser != "" && adminHash != "" && req.Username == adminUser {
			if bcrypt.CompareHashAndPassword([]byte(adminHash), []byte(req.Password)) == nil {
				sub, role, ok = adminUser, "admin", true
			}
		}
		if !ok {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tok, err := a.IssueJWT(sub, role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok, "role": role})
	}
}
