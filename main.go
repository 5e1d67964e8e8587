package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
	crewx "github.com/tanpawarit/customer-support-api/agent/crew"
	promptx "github.com/tanpawarit/customer-support-api/agent/prompt"
	apix "github.com/tanpawarit/customer-support-api/api"
	configx "github.com/tanpawarit/customer-support-api/pkg/config"
	_ "github.com/tanpawarit/customer-support-api/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/customer-support-api/pkg/openrouter"
)

const (
	processorCrew = "crew"
	processorEcho = "echo"
)

type AppConfig struct {
	Processor string `envconfig:"PROCESSOR" default:"crew"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("APP")
	serverCfg := configx.MustNew[apix.Config]("SERVER")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	processor, err := newProcessor(ctx, appCfg.Processor)
	if err != nil {
		log.Fatal().Err(err).Str("processor", appCfg.Processor).Msg("failed to initialize inquiry processor")
	}

	server, err := apix.NewServer(*serverCfg, processor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create http server")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("http server stopped")
		}
		return
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newProcessor(ctx context.Context, kind string) (contractx.Processor, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case processorEcho:
		return crewx.Echo, nil
	case processorCrew, "":
		modelCfg, err := configx.New[openrouterx.Config]("OPENROUTER")
		if err != nil {
			return nil, err
		}
		crewCfg, err := configx.New[crewx.Config]("CREW")
		if err != nil {
			return nil, err
		}
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, err
		}
		crew, err := crewx.New(ctx, chatModel, promptx.LoadPromptSet(), *crewCfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("model", modelCfg.Model).Bool("quality_review", crewCfg.QualityReview).Msg("crew processor ready")
		return crew, nil
	default:
		return nil, fmt.Errorf("%w: unknown processor %q", contractx.ErrValidation, kind)
	}
}
