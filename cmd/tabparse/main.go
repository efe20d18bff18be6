package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vgrebnev/tabparse/internal/config"
	"github.com/vgrebnev/tabparse/internal/convert"
	"github.com/vgrebnev/tabparse/internal/parser"
	"go.uber.org/zap"
)

type Output struct {
	Success     bool     `json:"success"`
	Rows        int      `json:"rows,omitempty"`
	Columns     []string `json:"columns,omitempty"`
	OutputFiles []string `json:"output_files,omitempty"`
	Error       string   `json:"error,omitempty"`
	Duration    string   `json:"duration"`
}

func main() {

	start := time.Now()

	cfg, err := config.ParseFlags()
	if err != nil {
		emitJSON(Output{
			Success:  false,
			Error:    fmt.Sprintf("configuration error: %v", err),
			Duration: time.Since(start).String(),
		})
		return
	}

	logger := newLogger(cfg.Verbose)
	defer logger.Sync()

	if cfg.Format != "" {
		runParse(cfg, start)
		return
	}
	runConvert(cfg, logger, start)
}

func runParse(cfg *config.Config, start time.Time) {
	registry := parser.NewRegistry()
	p, err := registry.Resolve(cfg.Format)
	if err != nil {
		emitJSON(Output{
			Success:  false,
			Error:    err.Error(),
			Duration: time.Since(start).String(),
		})
		return
	}

	tbl, err := p.Parse(cfg.Input)
	if err != nil {
		emitJSON(Output{
			Success:  false,
			Error:    fmt.Sprintf("parse error: %v", err),
			Duration: time.Since(start).String(),
		})
		return
	}

	emitJSON(Output{
		Success:  true,
		Rows:     tbl.Rows(),
		Columns:  tbl.Headers(),
		Duration: time.Since(start).String(),
	})
}

func runConvert(cfg *config.Config, logger *zap.Logger, start time.Time) {
	if err := convert.Convert(cfg.Input, cfg.Output, logger); err != nil {
		emitJSON(Output{
			Success:  false,
			Error:    fmt.Sprintf("conversion error: %v", err),
			Duration: time.Since(start).String(),
		})
		return
	}

	emitJSON(Output{
		Success:     true,
		OutputFiles: []string{cfg.Output},
		Duration:    time.Since(start).String(),
	})
}

func newLogger(verbose bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	return logger
}

func emitJSON(out Output) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("JSON output error: %v", err)
	}
}
