package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"protostudio/internal/artifact"
	"protostudio/internal/attachment"
	"protostudio/internal/buildsim"
	"protostudio/internal/config"
	"protostudio/internal/credits"
	"protostudio/internal/generate"
	"protostudio/internal/handler"
	"protostudio/internal/llm"
	"protostudio/internal/server"
	"protostudio/internal/session"
)

type App struct {
	server *server.Server
	llm    llm.ContentGenerator
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	gemini, err := llm.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), cfg.JSONModel, cfg.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("failed to init llm client: %w", err)
	}

	genSvc, err := generate.New(gemini)
	if err != nil {
		return nil, fmt.Errorf("failed to init generation service: %w", err)
	}

	ledger, err := credits.NewLedger(credits.NewStoreFromEnv(cfg.CreditsPath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init credits ledger: %w", err)
	}

	attachments := attachment.NewRegistry()
	sess := session.New(genSvc, ledger, attachments, nil)

	sim := buildsim.New(buildsim.Config{
		Charge: func(n int) error {
			_, err := ledger.Consume(n)
			return err
		},
		OnDone: func(target buildsim.Target) {
			sess.AddLog(fmt.Sprintf("Build process for %s finished.", target))
		},
	})

	var mirror *artifact.S3Store
	if cfg.Artifact.Enabled {
		mirror, err = artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			// The studio works without the mirror; exports just stay local.
			log.Printf("artifact mirror disabled: %v", err)
			mirror = nil
		}
	}

	studio := handler.NewStudio(sess, ledger, attachments, sim, mirror)
	srv := server.New(cfg.Port, server.NewMux(studio))

	return &App{server: srv, llm: gemini}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.llm.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
