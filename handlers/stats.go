package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/HR1937/community-care/models"
)

// HelpCountFunc reports how many help requests the user has completed,
// looked up by the email shared between the main account and the
// neighbour network. Nil when the helper network is not configured.
type HelpCountFunc func(ctx context.Context, email string) int

// Stats serves the per-section counters shown on the profile screen.
func Stats(db *sql.DB, secret string, helpCount HelpCountFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		userID, err := parseToken(secret, req.Token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		var stats models.SectionStats
		var email string
		err = db.QueryRow(`
			SELECT
				u.email,
				COUNT(p.id) FILTER (WHERE p.section = 'remedies'),
				COUNT(p.id) FILTER (WHERE p.section = 'experience')
			FROM users u
			LEFT JOIN posts p ON p.user_id = u.id
			WHERE u.id = $1
			GROUP BY u.email`,
			userID).Scan(&email, &stats.Remedies, &stats.Experience)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
			log.Println("Stats query error:", err)
			return
		}

		if helpCount != nil {
			stats.Help = helpCount(r.Context(), email)
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
