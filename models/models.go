package models

import "time"

// Section is one of the two fixed content categories a post belongs to.
type Section string

const (
	SectionRemedies   Section = "remedies"
	SectionExperience Section = "experience"
)

func (s Section) Valid() bool {
	return s == SectionRemedies || s == SectionExperience
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"media_url"`
	MediaType string    `json:"media_type"`
	Section   Section   `json:"section"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest is the body of POST /posts. The token travels in the
// body rather than a header; that is the wire contract the client uses.
type CreatePostRequest struct {
	Token     string   `json:"token"`
	MediaURL  string   `json:"media_url"`
	MediaType string   `json:"media_type"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Section   Section  `json:"section"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// SectionStats backs the profile counters.
type SectionStats struct {
	Remedies   int `json:"remedies"`
	Experience int `json:"experience"`
	Help       int `json:"help"`
}

// HelpRequest is a neighbour-help request stored in Firestore.
type HelpRequest struct {
	ID            string    `json:"id" firestore:"id"`
	Title         string    `json:"title" firestore:"title"`
	AudioURL      string    `json:"audioUrl" firestore:"audioUrl"`
	Transcription string    `json:"transcription" firestore:"transcription"`
	ElderID       string    `json:"elderId" firestore:"elderId"`
	ElderLocation Location  `json:"elderLocation" firestore:"elderLocation"`
	HelperID      string    `json:"helperId,omitempty" firestore:"helperId"`
	Status        string    `json:"status" firestore:"status"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
}

// Helper-network account, kept in Firestore separately from the main
// postgres users table.
type Neighbour struct {
	ID        string    `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	Password  string    `json:"-" firestore:"password"`
	Role      string    `json:"role" firestore:"role"`
	Location  Location  `json:"location" firestore:"location"`
	FCMToken  string    `json:"fcmToken" firestore:"fcmToken"`
	Reward    int       `json:"reward" firestore:"reward"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

type Location struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

const (
	HelpStatusPending   = "pending"
	HelpStatusAssigned  = "assigned"
	HelpStatusConfirmed = "confirmed"
)
