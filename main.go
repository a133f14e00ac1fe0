package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"karya-project/microservices/points-service/handlers"
	"karya-project/microservices/points-service/logging"
	"karya-project/microservices/points-service/repositories"
	"karya-project/microservices/points-service/services"
	"karya-project/microservices/points-service/utils"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Role, User-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Points Service...")
	err := godotenv.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	taskRepo := repositories.NewTaskRepo(db.Collection("tasks"))
	userRepo := repositories.NewUserRepo(db.Collection("users"))
	archiveRepo := repositories.NewArchiveRepo(db.Collection("weekly_archives"), db.Collection("markers"))

	httpClient := utils.NewHTTPClient()

	notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' state changed from %s to %s", name, from.String(), to.String())
		},
	})

	notifier := services.NewHTTPNotifier(os.Getenv("NOTIFICATIONS_SERVICE_URL"), httpClient, notificationsBreaker)

	rankingService := services.NewRankingService(taskRepo, userRepo)
	resetService := services.NewResetService(taskRepo, userRepo, userRepo, archiveRepo, notifier)

	pointsHandler := handlers.NewPointsHandler(rankingService, archiveRepo)
	resetHandler := handlers.NewResetHandler(resetService, userRepo)

	// Kreiranje mux routera
	r := mux.NewRouter()

	r.HandleFunc("/api/points/summary/{userId}", pointsHandler.GetUserSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/points/leaderboard", pointsHandler.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/points/leaderboard/me/{userId}", pointsHandler.GetMyRank).Methods(http.MethodGet)
	r.HandleFunc("/api/points/departments", pointsHandler.GetDepartmentRanking).Methods(http.MethodGet)
	r.HandleFunc("/api/points/archives", pointsHandler.GetWeeklyArchives).Methods(http.MethodGet)
	r.HandleFunc("/api/points/weekly-reset", resetHandler.ManualReset).Methods(http.MethodPost)

	corsRouter := enableCORS(authMiddleware(r))

	// Zakazani okidač: provera na sat vremena, marker čuva idempotentnost pa
	// učestalost provere ne pravi duple resete.
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go runResetScheduler(schedulerCtx, resetService)

	// Gašenje schedulera na SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logging.Logger.Info("Event ID: SHUTDOWN_SIGNAL, Description: Shutdown signal received, stopping scheduler...")
		stopScheduler()
		os.Exit(0)
	}()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}

// runResetScheduler periodično pokreće nedeljni reset. Sam reset odlučuje da li
// je vreme (čuvar od 7 dana), ovde se samo okida.
func runResetScheduler(ctx context.Context, resetService *services.ResetService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Reset se radi ponedeljkom; čuvar blokira ostale satne okidaje istog dana.
			if time.Now().Weekday() != time.Monday {
				continue
			}
			if err := resetService.Run(ctx); err != nil {
				logging.Logger.Errorf("Event ID: SCHEDULED_RESET_FAILED, Description: Scheduled weekly reset failed: %v", err)
			}
		}
	}
}
