package main

import (
	"flag"
	"fmt"
	"os"
	"rgehrsitz/condform/internal/config"
	"rgehrsitz/condform/internal/demo"
	"rgehrsitz/condform/internal/evaluator"
	"rgehrsitz/condform/internal/form"
	"rgehrsitz/condform/internal/logger"
	"rgehrsitz/condform/internal/preprocessor"
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
	rulesFile := flag.String("rules", cfg.RulesFile, "rule file replacing the embedded refine rules")
	asJSON := flag.Bool("json", false, "print issues as JSON")
	level := flag.String("log-level", cfg.LogLevel, "log level")
	flag.Parse()

	if err := logger.Setup(*level, cfg.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if flag.NArg() != 1 {
		log.Error().Msg("Usage: formcheck [-strategy name] [-rules file] [-json] <values.json|values.yaml>")
		os.Exit(2)
	}

	ex, err := loadExample(*strategy, *rulesFile)
	if err != nil {
		log.Error().Err(err).Msg("Error building validator")
		os.Exit(2)
	}

	values, err := loadValues(flag.Arg(0), ex.Definition.Fields)
	if err != nil {
		log.Error().Err(err).Msg("Error reading values")
		os.Exit(2)
	}

	issues := ex.Validator.Validate(values)
	log.Debug().Str("strategy", ex.Name).Int("issues", len(issues)).Msg("Values evaluated")

	if *asJSON {
		out := issues
		if out == nil {
			out = rules.Issues{}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Error encoding issues")
			os.Exit(2)
		}
		fmt.Println(string(data))
	} else {
		for _, it := range issues {
			fmt.Println(it.String())
		}
	}

	if len(issues) > 0 {
		os.Exit(1)
	}
}

func loadExample(strategy, rulesFile string) (demo.Example, error) {
	opts := []evaluator.Option{evaluator.WithLogger(log.Logger)}
	ex, err := demo.Lookup(strategy, opts...)
	if err != nil {
		return demo.Example{}, err
	}
	if rulesFile == "" {
		return ex, nil
	}
	if strategy != demo.Refine {
		log.Warn().Str("rules", rulesFile).Str("strategy", strategy).Msg("Rule file only applies to the refine strategy, ignoring it")
		return ex, nil
	}
	rs, err := demo.LoadRuleSet(rulesFile)
	if err != nil {
		return demo.Example{}, err
	}
	ex.Validator, err = demo.RefineValidator(rs, opts...)
	return ex, err
}

func loadValues(path string, catalog rules.Catalog) (rules.FieldValues, error) {
	format, err := preprocessor.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values, err := preprocessor.ParseValues(data, format, catalog)
	if err != nil {
		return nil, err
	}
	return form.ResolveFiles(values)
}
