package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/wesleysantana/restaurant-reservation/internal/config"
	"github.com/wesleysantana/restaurant-reservation/internal/database"
	"github.com/wesleysantana/restaurant-reservation/internal/handler"
	"github.com/wesleysantana/restaurant-reservation/internal/queue"
	"github.com/wesleysantana/restaurant-reservation/internal/repository"
	"github.com/wesleysantana/restaurant-reservation/internal/router"
	"github.com/wesleysantana/restaurant-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid RESTAURANT_TZ %q: %v", cfg.Timezone, err)
	}

	rdb := config.NewRedisClient()

	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)
	rules := repository.NewBusinessHoursRuleRepo(db)

	calendar := service.NewCalendar(rules, loc)
	admission := service.NewAdmission(calendar, tables, reservations)

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Tables:        handler.NewTableHandler(tables),
		BusinessHours: handler.NewBusinessHoursHandler(rules, calendar),
		Reservations:  handler.NewReservationHandler(admission),
	}, cfg.JWTSecret, rdb)

	// Background consumer writing reservation events to the audit log.
	queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, tz=%s)", addr, cfg.Env, cfg.Timezone)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
