//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"notifycenter/internal/app"
	"notifycenter/internal/config"
	"notifycenter/internal/http"
	"notifycenter/internal/http/controller"
	"notifycenter/internal/logging"
	"notifycenter/internal/metrics"
	"notifycenter/internal/queue/rabbitmq"
	"notifycenter/internal/service/notify"
	"notifycenter/internal/sse"
	"notifycenter/internal/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.New,
		app.NewCenter,
		app.NewDismissScheduler,
		store.NewStore,
		sse.NewHub,
		notify.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
