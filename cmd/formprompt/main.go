package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"rgehrsitz/condform/internal/config"
	"rgehrsitz/condform/internal/demo"
	"rgehrsitz/condform/internal/evaluator"
	"rgehrsitz/condform/internal/form"
	"rgehrsitz/condform/internal/logger"
	"rgehrsitz/condform/internal/preprocessor"
	"rgehrsitz/condform/internal/prompt"
	"rgehrsitz/condform/internal/rules"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	strategy := flag.String("strategy", cfg.Strategy, "validation strategy: discriminated, composed or refine")
	level := flag.String("log-level", cfg.LogLevel, "log level")
	flag.Parse()

	if err := logger.Setup(*level, cfg.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ex, err := demo.Lookup(*strategy, evaluator.WithLogger(log.Logger))
	if err != nil {
		log.Error().Err(err).Msg("Error building validator")
		os.Exit(2)
	}

	runnerOpts := []prompt.Option{prompt.WithLogger(log.Logger)}
	if rs, ok := ex.Validator.(*evaluator.RuleSet); ok {
		set := rules.RuleSet{Name: rs.Name(), Rules: rs.Rules()}
		runnerOpts = append(runnerOpts, prompt.WithDependencies(preprocessor.Analyze(&set)))
	}

	session := ex.NewSession(form.WithLogger(log.Logger))
	log.Info().Str("example", ex.Title).Str("session", session.ID()).Msg("Form session started")

	runner := prompt.NewRunner(prompt.NewSurveyDriver(), runnerOpts...)
	err = runner.Run(ctx, session, func(values rules.FieldValues) error {
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	})
	switch {
	case err == nil:
		log.Info().Msg("Form submitted")
	case errors.Is(err, prompt.ErrAbandoned), errors.Is(err, prompt.ErrInterrupted):
		log.Info().Msg("Form abandoned")
		os.Exit(1)
	default:
		log.Error().Err(err).Msg("Error running form")
		os.Exit(1)
	}
}
