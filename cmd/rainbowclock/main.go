package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/coreman2200/rainbowclock/internal/app"
	"github.com/coreman2200/rainbowclock/internal/config"
)

func main() {
	// ---- Flags (override config.yaml when set) ----
	var (
		configPath  = flag.String("config", "config.yaml", "path to config.yaml")
		logLevel    = flag.String("log-level", "", "log level: debug | info | warn | error")
		timezone    = flag.String("tz", "", "IANA time zone shown on the clock")
		simOnly     = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		fallbackSim = flag.Bool("fallback-sim", false, "use simulation for outputs whose hardware fails to open")
		i2cBus      = flag.String("i2c", "", "I2C bus for the display (default: first bus)")
		spiPort     = flag.String("spi", "", "SPI port for the strip (default: first port)")
		stripDriver = flag.String("strip", "", "strip driver: apa102 | ws2812 | sim")
		writeConfig = flag.String("write-config", "", "write the effective config to this path and exit")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults and flags")
		cfg = config.Default()
	}

	// ---- Effective params ----
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *timezone != "" {
		cfg.Timezone = *timezone
	}
	if set["sim-only"] {
		cfg.SimOnly = *simOnly
	}
	if set["fallback-sim"] {
		cfg.FallbackSim = *fallbackSim
	}
	if *i2cBus != "" {
		cfg.Display.Bus = *i2cBus
	}
	if *spiPort != "" {
		cfg.Strip.Port = *spiPort
	}
	if *stripDriver != "" {
		cfg.Strip.Driver = *stripDriver
	}
	zerolog.SetGlobalLevel(cfg.Level())

	if *writeConfig != "" {
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
		if err := config.Save(*writeConfig, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *writeConfig).Msg("config save failed")
		}
		log.Info().Str("path", *writeConfig).Msg("config written")
		return
	}

	// ---- Host drivers ----
	if !cfg.SimOnly {
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("host init failed; hardware outputs will be unavailable")
		}
	}

	core, err := app.InitCore(cfg, app.Buses{}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("tz", cfg.Timezone).
		Str("display", cfg.Display.Driver).
		Str("strip", cfg.Strip.Driver).
		Bool("sim_only", cfg.SimOnly).
		Msg("rainbow clock starting")
	core.Controller.Start()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	core.Controller.Stop()
}
