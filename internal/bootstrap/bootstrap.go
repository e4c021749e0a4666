// Package bootstrap builds the logger and the tool service from the
// environment for the server and stdio binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kazz187/taskdigest/internal/aggregator"
	"github.com/kazz187/taskdigest/internal/config"
	"github.com/kazz187/taskdigest/internal/newsletter"
	newsletterrepo "github.com/kazz187/taskdigest/internal/newsletter/repositoryimpl"
	subscriptionrepo "github.com/kazz187/taskdigest/internal/subscription/repositoryimpl"
	"github.com/kazz187/taskdigest/internal/taskmaster"
	"github.com/kazz187/taskdigest/internal/tools"
	"github.com/kazz187/taskdigest/pkg/clog"
	"github.com/kazz187/taskdigest/pkg/storage"
)

// NewLogger returns a logger writing to w, colored text locally and JSON
// elsewhere. With LOG_FILE set, JSON records are also written to a rotating
// file; the returned closer releases it.
func NewLogger(env *config.Env, w io.Writer) (*slog.Logger, io.Closer) {
	level := env.SlogLevel()
	var handler slog.Handler
	if env.IsLocal() {
		handler = clog.NewTextHandler(w, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	var closer io.Closer = nopCloser{}
	if env.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   env.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		handler = slog.NewMultiHandler(handler, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
		closer = file
	}
	return slog.New(clog.NewAttributesHandler(handler)), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func NewStorage(ctx context.Context, env config.StorageEnv) (storage.Storage, error) {
	switch env.Type {
	case "s3":
		store, err := storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
		return store, nil
	case "local", "":
		store, err := storage.NewLocalStorage(env.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_TYPE %q", env.Type)
	}
}

// App holds the tool service and the resources behind it.
type App struct {
	Tools *tools.Service

	closers []io.Closer
}

func New(ctx context.Context, env *config.Env) (*App, error) {
	loc, err := env.Location()
	if err != nil {
		return nil, err
	}
	driver, dsn, err := env.Driver()
	if err != nil {
		return nil, err
	}

	store, err := NewStorage(ctx, env.StorageEnv)
	if err != nil {
		return nil, err
	}
	subscriptions, err := subscriptionrepo.Open(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open subscription store: %w", err)
	}

	client := taskmaster.NewClient(taskmaster.Config{
		BaseURL:           env.APIURL,
		APIKey:            env.TaskmasterEnv.APIKey,
		CategoriesTimeout: env.CategoriesTimeout,
		TasksTimeout:      env.TasksTimeout,
		FollowUpTimeout:   env.FollowUpTimeout,
		FollowUpPageSize:  env.FollowUpPageSize,
	})
	fetcher := aggregator.NewFetcher(client, aggregator.Config{
		CacheTTL:    env.CacheTTL,
		FanOutLimit: env.FanOutLimit,
		EnrichLimit: env.EnrichLimit,
		Location:    loc,
	})
	newsletters := newsletter.NewService(fetcher, subscriptions, newsletterrepo.NewStorageRepository(store))

	return &App{
		Tools:   tools.NewService(fetcher, subscriptions, newsletters),
		closers: []io.Closer{subscriptions},
	}, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
