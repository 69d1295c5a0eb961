package routes

import (
	"github.com/gorilla/mux"

	"github.com/HR1937/community-care/handlers"
)

func CreateAssistRoutes(assist *handlers.AssistHandler, chat *handlers.ChatHandler, router *mux.Router) *mux.Router {
	router.HandleFunc("/api/signup", assist.Signup).Methods("POST")
	router.HandleFunc("/api/signin", assist.Signin).Methods("POST")
	router.HandleFunc("/api/upload", assist.CreateRequest).Methods("POST")
	router.HandleFunc("/api/helper", assist.PendingRequests).Methods("GET")
	router.HandleFunc("/api/assignRequest", assist.AssignRequest).Methods("POST")
	router.HandleFunc("/api/eld-people/confirm", assist.ConfirmRequest).Methods("POST")
	router.HandleFunc("/api/reward/claim", assist.ClaimReward).Methods("POST")

	router.HandleFunc("/api/audio-chat", chat.Chat).Methods("POST")

	return router
}
