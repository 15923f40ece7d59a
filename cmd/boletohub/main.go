package main

import (
	"boletohub/internal/config"
	"boletohub/internal/logger"
	"boletohub/internal/metrics"
	"boletohub/internal/mongo"
	"boletohub/internal/mysql"
	"boletohub/internal/routing"
	"boletohub/pkg/middleware"
	"boletohub/pkg/session"

	"github.com/gorilla/mux"
)

func main() {
	config.Load() // load env var from .env

	db := mysql.LoadDB()
	defer db.Close()

	mongoClient, mongoDB := mongo.LoadDB()

	logger := logger.Load()

	r := mux.NewRouter()
	api := r.PathPrefix("/api/auth").Subrouter()
	api.Use(middleware.Panic(logger))
	api.Use(middleware.CORS)
	api.Use(middleware.RequestID)
	api.Use(metrics.Middleware)
	api.Use(middleware.CheckJWT(session.NewMySQLSessionRepo(db)))

	routing.InitRoutes(api, db, mongoClient, mongoDB, logger)
	routing.ServeMetrics(r)
	routing.StartServer(r, config.Port())
}
