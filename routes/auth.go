package routes

import (
	"database/sql"

	"github.com/gorilla/mux"

	"github.com/HR1937/community-care/handlers"
	"github.com/HR1937/community-care/middleware"
)

func CreateAuthRoutes(db *sql.DB, secret string, loginLimiter *middleware.RateLimiter, router *mux.Router) *mux.Router {
	router.HandleFunc("/signup", handlers.Signup(db, secret)).Methods("POST")
	router.Handle("/login", loginLimiter.Limit(handlers.Login(db, secret))).Methods("POST")

	return router
}
