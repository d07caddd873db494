package main

import (
	"flag"
	"log"
	"os"

	"github.com/automoto/avatarview/app"
	"github.com/automoto/avatarview/assets"
	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/logging"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	modelPath := flag.String("model", "", "GLB file to show instead of the bundled avatar")
	configPath := flag.String("config", "", "YAML file overlaid on the default settings")
	debug := flag.Bool("debug", false, "show the debug overlay")
	flag.Parse()

	if err := config.Apply(assets.DefaultConfig); err != nil {
		log.Fatalf("Failed to apply default config: %v", err)
	}
	if *configPath != "" {
		if err := config.ApplyFile(*configPath); err != nil {
			log.Fatalf("Failed to apply config: %v", err)
		}
	}
	if *debug {
		config.Debug.Overlay = true
	}

	logger, err := logging.New(config.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	model := assets.Avatar
	if *modelPath != "" {
		data, err := os.ReadFile(*modelPath)
		if err != nil {
			logger.Fatal("read model", zap.String("path", *modelPath), zap.Error(err))
		}
		model = data
	}

	ebiten.SetWindowSize(config.C.Width/2, config.C.Height/2)
	ebiten.SetWindowTitle(config.C.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)

	game := app.NewGame(model, logger)
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game loop stopped", zap.Error(err))
	}
}
