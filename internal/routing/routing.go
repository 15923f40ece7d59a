package routing

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	internalmongo "boletohub/internal/mongo"
	"boletohub/pkg/boleto"
	"boletohub/pkg/handlers"
	"boletohub/pkg/session"
	"boletohub/pkg/user"
)

func InitRoutes(api *mux.Router, db *sql.DB, mongoClient *mongo.Client, mongoDB *mongo.Database, logger *slog.Logger) {

	sessionRepo := session.NewMySQLSessionRepo(db)

	userService := user.NewService(
		user.NewMongoRepo(mongoDB),
		boleto.NewMongoRepo(mongoDB),
		sessionRepo,
		internalmongo.NewTxRunner(mongoClient),
	)
	handler := handlers.NewHandler(userService, logger)

	/* -+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+ */

	api.HandleFunc("/register", handler.Register).Methods("POST").Name("register")
	api.HandleFunc("/login", handler.Login).Methods("POST").Name("login")

	api.HandleFunc("/profile", handler.Profile).Methods("GET")
	api.HandleFunc("/users", handler.GetAllUsers).Methods("GET")
	api.HandleFunc("/upload-boleto", handler.UploadBoleto).Methods("POST")
	api.HandleFunc("/edit-user", handler.EditUser).Methods("PUT")
	api.HandleFunc("/delete-user", handler.DeleteUser).Methods("DELETE")
}

func ServeMetrics(r *mux.Router) {
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func StartServer(r *mux.Router, port string) {
	fmt.Println("\n\033[32m", "The server is running on http://localhost:"+port, "\033[0m")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal("Server failed:", err)
	}
}
