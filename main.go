package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tpalli/Vulkan/engine"
	"github.com/tpalli/Vulkan/engine/config"
	"github.com/tpalli/Vulkan/engine/core"
	"github.com/tpalli/Vulkan/pbrtexture"
)

func main() {
	configPath := flag.String("config", "assets/config.toml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("%s", err.Error())
	}

	game := pbrtexture.NewGame(cfg)

	eng, err := engine.New(game)
	if err != nil {
		core.LogFatal("failed to create engine: %s", err.Error())
	}

	if err := eng.Initialize(); err != nil {
		core.LogFatal("failed to initialize engine: %s", err.Error())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		eng.RequestShutdown()
	}()

	if err := eng.Run(); err != nil {
		core.LogFatal("engine stopped with error: %s", err.Error())
	}
}
