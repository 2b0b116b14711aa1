package main

import (
	"context"

	"github.com/actuallystonmai/recommendation-lambda/internal/bootstrap"
	"github.com/actuallystonmai/recommendation-lambda/internal/config"
	"github.com/actuallystonmai/recommendation-lambda/internal/logger"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
	}

	// Cold start: a failure here exits the process, the runtime reports an
	// init error and no invocation is ever served.
	app, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialization failed")
	}
	defer app.Close()

	lambda.Start(app.Handler.HandleRequest)
}
