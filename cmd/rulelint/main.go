package main

import (
	"flag"
	"fmt"
	"os"
	"rgehrsitz/condform/internal/config"
	"rgehrsitz/condform/internal/demo"
	"rgehrsitz/condform/internal/logger"
	"rgehrsitz/condform/internal/preprocessor"
	"strings"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	showDeps := flag.Bool("deps", false, "print the field dependency index")
	level := flag.String("log-level", cfg.LogLevel, "log level")
	flag.Parse()

	if err := logger.Setup(*level, cfg.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if flag.NArg() == 0 {
		log.Error().Msg("Usage: rulelint [-deps] <rules.yaml|rules.json>...")
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		rs, err := demo.LoadRuleSet(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Invalid rule file")
			failed = true
			continue
		}
		log.Info().Str("file", path).Str("ruleSet", rs.Name).Int("rules", len(rs.Rules)).Msg("Rule file is valid")

		if *showDeps {
			deps := preprocessor.Analyze(rs)
			for _, field := range deps.Fields() {
				fmt.Printf("%s -> %s\n", field, strings.Join(deps.Affected(field), ", "))
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}
