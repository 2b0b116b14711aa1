package bootstrap

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/recommendation-lambda/internal/cache"
	"github.com/actuallystonmai/recommendation-lambda/internal/config"
	"github.com/actuallystonmai/recommendation-lambda/internal/embeddings"
	"github.com/actuallystonmai/recommendation-lambda/internal/handler"
	"github.com/actuallystonmai/recommendation-lambda/internal/metrics"
	"github.com/actuallystonmai/recommendation-lambda/internal/model"
	"github.com/actuallystonmai/recommendation-lambda/internal/repository"
	"github.com/actuallystonmai/recommendation-lambda/internal/service"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog/log"
)

// App is the fully wired process: initialized state plus the request path.
type App struct {
	State      *State
	Service    *service.Service
	Handler    *handler.Handler
	Metrics    *metrics.Metrics
	Repository *repository.Repository

	closers []func()
}

// New loads AWS configuration, runs Init and wires the optional cache and
// recommendation log.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.EmbeddingsS3Path == "" {
		return nil, ErrMissingEmbeddingsPath
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}
	shape, err := cfg.Shape()
	if err != nil {
		return nil, err
	}

	loader := embeddings.NewLoader(embeddings.NewS3Client(awsCfg, cfg.S3Endpoint), cfg.EmbeddingsLocalPath, format)
	state, err := Init(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}

	app := &App{State: state, Metrics: metrics.New()}
	app.Metrics.SetMatrixRows(state.Matrix.Rows())

	modelClient := model.NewClient(model.NewRuntime(awsCfg), cfg.EndpointName)
	opts := []service.Option{service.WithMetrics(app.Metrics)}

	if cfg.RedisURL != "" {
		c, err := cache.NewFromURL(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, func() { c.Close() })
		if err := c.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("[bootstrap] redis not reachable, cache errors will be logged")
		}
		opts = append(opts, service.WithCache(c))
		log.Info().Msg("[bootstrap] recommendation cache enabled")
	}

	if cfg.DatabaseURL != "" {
		pool, err := repository.Connect(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, pool.Close)
		app.Repository = repository.NewRepository(pool)
		opts = append(opts, service.WithRecorder(app.Repository, cfg.EndpointName))
		log.Info().Msg("[bootstrap] recommendation log enabled")
	}

	app.Service = service.NewService(state.Matrix, modelClient, shape, opts...)
	app.Handler = handler.NewHandler(app.Service, app.Metrics)
	if app.Repository != nil {
		app.Handler.WithHistory(app.Repository)
	}
	return app, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
