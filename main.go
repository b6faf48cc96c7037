package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
)

var db *sql.DB
var sessionManager *SessionManager
var libraryProvider LibraryProvider
var scheduler *cron.Cron

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		log.Printf(
			"[GIN] | %d | %13v | %15s | %-7s | %s",
			c.Writer.Status(),
			latency,
			c.ClientIP(),
			c.Request.Method,
			c.Request.URL.Path,
		)
		if c.Request.URL.RawQuery != "" {
			log.Printf("[GIN-QUERY] %s", c.Request.URL.RawQuery)
		}
	}
}

func main() {
	var err error
	dbPath := getEnv("LIBRARY_DB_PATH", "./library.db")
	db, err = sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	initDB()

	signingMode, err := GetConfig(db, "token_signing")
	if err != nil {
		signingMode = "none"
	}
	codec := newTokenCodec(signingMode, getEnv("TOKEN_SECRET", "music-library-dev-secret"))
	if signingMode != "hmac" {
		log.Println("Token signing is disabled: sessions use unsigned demo tokens")
	}

	sessionManager = NewSessionManager(db, codec, NewTokenStore(db))
	libraryProvider = resolveLibraryProvider(db, NewLibrary(defaultSongs))
	startScheduler()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(loggingMiddleware())

	registerRoutes(r)

	port := getEnv("PORT", "8080")
	log.Printf("[GIN-debug] Listening and serving HTTP on :%s", port)
	r.Run(":" + port)
}

func registerRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		userRoutes := v1.Group("/user")
		{
			userRoutes.POST("/login", loginUser)
			userRoutes.GET("/session", getSession)
			userRoutes.POST("/logout", logoutUser)
		}

		libraryRoutes := v1.Group("/library")
		libraryRoutes.Use(AuthMiddleware())
		{
			libraryRoutes.GET("", getLibraryView)

			adminRoutes := libraryRoutes.Group("/songs")
			adminRoutes.Use(adminOnly())
			{
				adminRoutes.POST("", addSong)
				adminRoutes.DELETE("/:id", deleteSong)
			}
		}
	}
}

// startScheduler runs the periodic sweep that drops an expired persisted
// token. Restore performs the authoritative check lazily; the sweep is only
// housekeeping so a stale credential does not sit on disk for days.
func startScheduler() {
	scheduler = cron.New()
	var schedule, enabledStr string
	var isEnabled bool

	err := db.QueryRow("SELECT value FROM configuration WHERE key = 'token_cleanup_schedule'").Scan(&schedule)
	if err != nil {
		log.Printf("Could not read token_cleanup_schedule from config, using default. Error: %v", err)
		schedule = "0 * * * *" // Default: hourly
	}

	err = db.QueryRow("SELECT value FROM configuration WHERE key = 'token_cleanup_enabled'").Scan(&enabledStr)
	if err != nil {
		log.Printf("Could not read token_cleanup_enabled from config, defaulting to true. Error: %v", err)
		isEnabled = true
	} else {
		isEnabled = (enabledStr == "true")
	}

	if isEnabled {
		_, err := scheduler.AddFunc(schedule, func() {
			if sessionManager.PruneExpired() {
				log.Println("Cron job dropped an expired session token from the auth state store.")
			}
		})
		if err != nil {
			log.Fatalf("Error scheduling token cleanup cron job: %v", err)
		}
		scheduler.Start()
		log.Printf("Scheduled token cleanup started with schedule: '%s'", schedule)
	} else {
		log.Println("Scheduled token cleanup is disabled.")
	}
}
