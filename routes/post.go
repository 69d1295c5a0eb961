package routes

import (
	"database/sql"

	"github.com/gorilla/mux"

	"github.com/HR1937/community-care/handlers"
)

func CreatePostRoutes(posts *handlers.PostsHandler, db *sql.DB, secret string, helpCount handlers.HelpCountFunc, router *mux.Router) *mux.Router {
	router.HandleFunc("/posts", posts.Create).Methods("POST")
	router.HandleFunc("/feed", posts.Feed).Methods("GET")
	router.HandleFunc("/user/posts", posts.UserPosts).Methods("POST")
	router.HandleFunc("/user/stats", handlers.Stats(db, secret, helpCount)).Methods("POST")

	return router
}
