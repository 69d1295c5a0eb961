package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/HR1937/community-care/models"
	"golang.org/x/crypto/bcrypt"
)

func Signup(db *sql.DB, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.Name = strings.TrimSpace(req.Name)
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		var exists bool
		err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&exists)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database query failed")
			log.Println("Signup exists check error:", err)
			return
		}
		if exists {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create account")
			log.Println("Signup hash error:", err)
			return
		}

		var id int
		err = db.QueryRow(`
			INSERT INTO users (name, email, password_hash)
			VALUES ($1, $2, $3)
			RETURNING id`,
			req.Name, req.Email, string(hash)).Scan(&id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create account")
			log.Println("Signup insert error:", err)
			return
		}

		token, err := generateToken(secret, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to generate token")
			log.Println("Signup token error:", err)
			return
		}

		writeJSON(w, http.StatusOK, models.AuthResponse{UserID: strconv.Itoa(id), Token: token})
	}
}

func Login(db *sql.DB, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))

		var id int
		var hash string
		err := db.QueryRow(`SELECT id, password_hash FROM users WHERE email = $1`, req.Email).Scan(&id, &hash)
		if err != nil {
			// Same message for unknown user and bad password.
			if err != sql.ErrNoRows {
				log.Println("Login query error:", err)
			}
			writeError(w, http.StatusNotFound, "Invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusNotFound, "Invalid credentials")
			return
		}

		token, err := generateToken(secret, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to generate token")
			log.Println("Login token error:", err)
			return
		}

		writeJSON(w, http.StatusOK, models.AuthResponse{UserID: strconv.Itoa(id), Token: token})
	}
}
