package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/iterator"

	"github.com/HR1937/community-care/models"
	"github.com/HR1937/community-care/services"
)

// Helpers are matched within this radius of the requester.
const helperRadiusMeters = 500

// AssistHandler runs the neighbour-help network: elderly users record a
// help request, nearby helpers get notified, pick it up, and claim a
// reward once the elder confirms.
type AssistHandler struct {
	fs     *firestore.Client
	secret string
}

func NewAssistHandler(fs *firestore.Client, secret string) *AssistHandler {
	return &AssistHandler{fs: fs, secret: secret}
}

func (h *AssistHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var user models.Neighbour
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if user.Name == "" || user.Email == "" || user.Password == "" || user.Role == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		log.Println("Assist signup hash error:", err)
		return
	}
	user.Password = string(hash)
	user.ID = neighbourID(user.Email)
	user.Reward = 0
	user.CreatedAt = time.Now()

	if _, err := h.fs.Collection("neighbours").Doc(user.ID).Set(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		log.Println("Assist signup store error:", err)
		return
	}

	token, err := h.neighbourToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		log.Println("Assist signup token error:", err)
		return
	}

	user.Password = ""
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User created",
		"user":    user,
		"token":   token,
	})
}

func (h *AssistHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var cred struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := neighbourID(cred.Email)
	doc, err := h.fs.Collection("neighbours").Doc(id).Get(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid credentials")
		return
	}
	var user models.Neighbour
	if err := doc.DataTo(&user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load account")
		log.Println("Assist signin decode error:", err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(cred.Password)); err != nil {
		writeError(w, http.StatusNotFound, "Invalid credentials")
		return
	}

	token, err := h.neighbourToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		log.Println("Assist signin token error:", err)
		return
	}

	user.Password = ""
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Sign in successful",
		"user":    user,
		"token":   token,
	})
}

// CreateRequest registers a help request and alerts nearby helpers.
func (h *AssistHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	elderLat := parseCoordinate(r.URL.Query().Get("elderLat"), 40.7128)
	elderLng := parseCoordinate(r.URL.Query().Get("elderLng"), -74.0060)
	elderID := r.URL.Query().Get("elderId")
	if elderID == "" {
		elderID = "demo-elder"
	}

	now := time.Now()
	req := models.HelpRequest{
		ID:            fmt.Sprintf("%s-%d", elderID, now.Unix()),
		Title:         "Help Request - " + now.Format("15:04"),
		Transcription: "Audio help request from elderly person",
		ElderID:       elderID,
		ElderLocation: models.Location{Lat: elderLat, Lng: elderLng},
		Status:        models.HelpStatusPending,
		CreatedAt:     now,
	}

	if _, err := h.fs.Collection("requests").Doc(req.ID).Set(r.Context(), req); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create request")
		log.Println("Assist create error:", err)
		return
	}

	helpers, err := h.nearbyHelpers(r.Context(), elderLat, elderLng)
	if err != nil {
		log.Println("Assist helper scan error:", err)
	}
	h.notifyHelpers(helpers, req)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Audio uploaded and request created",
		"requestId":     req.ID,
		"transcription": req.Transcription,
		"title":         req.Title,
	})
}

func (h *AssistHandler) nearbyHelpers(ctx context.Context, lat, lng float64) ([]models.Neighbour, error) {
	iter := h.fs.Collection("neighbours").Where("role", "==", "helper").Documents(ctx)
	defer iter.Stop()

	var helpers []models.Neighbour
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return helpers, err
		}
		var u models.Neighbour
		if err := doc.DataTo(&u); err != nil {
			continue
		}
		if distanceMeters(lat, lng, u.Location.Lat, u.Location.Lng) <= helperRadiusMeters {
			helpers = append(helpers, u)
		}
	}
	return helpers, nil
}

func (h *AssistHandler) notifyHelpers(helpers []models.Neighbour, req models.HelpRequest) {
	var tokens []string
	for _, helper := range helpers {
		if helper.FCMToken != "" {
			tokens = append(tokens, helper.FCMToken)
		}
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{
		"type":       "help_request",
		"request_id": req.ID,
	}
	_, _, err := services.NotifyHelpers(tokens, req.Title, req.Transcription, data, func(dead string) {
		h.purgeDeadToken(context.Background(), dead)
	})
	if err != nil {
		log.Println("Assist notify error:", err)
	}
}

func (h *AssistHandler) purgeDeadToken(ctx context.Context, token string) {
	iter := h.fs.Collection("neighbours").Where("fcmToken", "==", token).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			return
		}
		_, _ = doc.Ref.Update(ctx, []firestore.Update{{Path: "fcmToken", Value: ""}})
	}
}

// PendingRequests lists open help requests for a helper to pick from.
func (h *AssistHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	iter := h.fs.Collection("requests").
		Where("status", "==", models.HelpStatusPending).
		Documents(r.Context())
	defer iter.Stop()

	requests := []models.HelpRequest{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch requests")
			log.Println("Assist list error:", err)
			return
		}
		var req models.HelpRequest
		if err := doc.DataTo(&req); err != nil {
			continue
		}
		requests = append(requests, req)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (h *AssistHandler) AssignRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RequestID string `json:"requestId"`
		HelperID  string `json:"helperId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RequestID == "" || body.HelperID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.fs.Collection("requests").Doc(body.RequestID).Update(r.Context(), []firestore.Update{
		{Path: "status", Value: models.HelpStatusAssigned},
		{Path: "helperId", Value: body.HelperID},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assign request")
		log.Println("Assist assign error:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Request assigned successfully"})
}

// ConfirmRequest is the elder's acknowledgement that help arrived.
func (h *AssistHandler) ConfirmRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RequestID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.fs.Collection("requests").Doc(body.RequestID).Update(r.Context(), []firestore.Update{
		{Path: "status", Value: models.HelpStatusConfirmed},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to confirm request")
		log.Println("Assist confirm error:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Request confirmed successfully"})
}

// ClaimReward pays a helper for a confirmed request.
func (h *AssistHandler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HelperID  string `json:"helperId"`
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.HelperID == "" || body.RequestID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.fs.Collection("requests").Doc(body.RequestID).Get(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	var req models.HelpRequest
	if err := doc.DataTo(&req); err != nil || req.Status != models.HelpStatusConfirmed || req.HelperID != body.HelperID {
		writeError(w, http.StatusForbidden, "Request not confirmed for this helper")
		return
	}

	helperRef := h.fs.Collection("neighbours").Doc(body.HelperID)
	if _, err := helperRef.Update(r.Context(), []firestore.Update{
		{Path: "reward", Value: firestore.Increment(10)},
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to claim reward")
		log.Println("Assist reward error:", err)
		return
	}

	var newBalance int
	if helperDoc, err := helperRef.Get(r.Context()); err == nil {
		var helper models.Neighbour
		if err := helperDoc.DataTo(&helper); err == nil {
			newBalance = helper.Reward
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Reward claimed successfully",
		"newBalance": newBalance,
	})
}

// ConfirmedHelpCount backs the profile "help" counter. Neighbour
// accounts are keyed by email, so the caller passes the user's email
// and neighbourID bridges it to the helper id that AssignRequest
// stores on requests.
func (h *AssistHandler) ConfirmedHelpCount(ctx context.Context, email string) int {
	iter := h.fs.Collection("requests").
		Where("status", "==", models.HelpStatusConfirmed).
		Where("helperId", "==", neighbourID(email)).
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err != nil {
			break
		}
		count++
	}
	return count
}

// neighbourID is the document key for a neighbour account. Signup,
// signin and the help counter must all derive it the same way.
func neighbourID(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *AssistHandler) neighbourToken(user models.Neighbour) (string, error) {
	return generateNeighbourToken(h.secret, user)
}

func parseCoordinate(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

// distanceMeters is the haversine distance between two coordinates.
func distanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371e3
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}
