package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/arkamedika/billing-console/config"
	"github.com/arkamedika/billing-console/internal/devserver"
	"github.com/arkamedika/billing-console/internal/notify"
)

func main() {
	cfg := config.LoadConfig()

	hub := notify.NewHub()
	go hub.Run()

	store := devserver.NewStore()
	handler := devserver.NewHandler(store, hub)

	e := echo.New()
	e.HideBanner = true
	devserver.Register(e, handler, hub)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("billing stub API listening on port %s...", port)
	log.Fatal(e.Start(":" + port))
}
