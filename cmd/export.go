package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog"

	"tymodoro/internal/audio/export"
	"tymodoro/internal/audio/synth"
	"tymodoro/internal/config"
)

// runExport renders one loop of cfg.Export to a FLAC file.
func runExport(cfg config.Config, logger zerolog.Logger) error {
	generator, err := synth.ParseGenerator(cfg.Export)
	if err != nil {
		return err
	}

	start := time.Now()
	seed := uint64(start.UnixNano())
	buffer, err := export.RenderLoop(generator, cfg.SampleRate, rand.New(rand.NewPCG(seed, seed>>1)))
	if err != nil {
		return fmt.Errorf("render %s: %w", generator, err)
	}

	file, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.WriteFLAC(file, buffer); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", cfg.Output, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.Info().
		Str("generator", generator.String()).
		Str("output", cfg.Output).
		Dur("took", time.Since(start)).
		Msg("exported loop")
	return nil
}
