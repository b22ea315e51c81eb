package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/game"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/survey"
)

func main() {
	cfg := game.DefaultConfig()
	var path string
	flag.StringVar(&path, "survey", "", "survey fixture JSON (default: synthetic panel)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed for particles and the synthetic panel")
	flag.BoolVar(&cfg.AutoPlay, "autoplay", false, "start advancing immediately")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	flag.Parse()

	if path != "" {
		ds, err := survey.Load(path)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Dataset = ds
	}

	g, err := game.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowTitle("Longwall Face Visualizer")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
