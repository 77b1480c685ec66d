package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/admin"
	"github.com/pharmstock/medfront/internal/apiclient"
	"github.com/pharmstock/medfront/internal/audit"
	"github.com/pharmstock/medfront/internal/config"
	"github.com/pharmstock/medfront/internal/handler"
	"github.com/pharmstock/medfront/internal/router"
	"github.com/pharmstock/medfront/internal/session"
	"github.com/pharmstock/medfront/internal/table"
	"github.com/pharmstock/medfront/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	client := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout)

	// Credential store: Redis when configured and reachable, else the local
	// file. Either way it is the single persisted value in this process.
	var store token.Store
	if rc := config.NewRedisClient(); rc != nil {
		log.Printf("credential store: redis")
		store = token.NewRedisStore(rc)
	} else {
		log.Printf("credential store: file %s", cfg.TokenFile)
		store = token.NewFileStore(cfg.TokenFile)
	}

	sessions := session.NewManager(client, store, cfg.RegisterAutoLogin)
	// Session restore runs in the background; gated routes answer 503 until
	// it resolves rather than assuming either state.
	go sessions.Initialize(context.Background())

	auditor := audit.NewPublisher(cfg.AMQPURL)
	if auditor.Enabled() {
		log.Printf("audit: publishing to %s", cfg.AMQPURL)
	}

	tableCtrl := table.NewController(client, cfg.PageSize)
	adminCtrl := admin.NewController(client, auditor)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(sessions, cfg.APIBaseURL, cfg.OAuthProvider))
	router.RegisterTable(e, handler.NewTableHandler(tableCtrl, sessions), handler.NewRecordsHandler(tableCtrl, sessions, auditor), sessions)
	router.RegisterProfile(e, handler.NewProfileHandler(client, sessions), sessions)
	router.RegisterAdmin(e, handler.NewAdminHandler(adminCtrl, sessions), sessions)

	addr := ":" + cfg.Port
	log.Printf("console listening on %s (env=%s, backend=%s)", addr, cfg.Env, cfg.APIBaseURL)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
