package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"

	"github.com/ethp2p/echelon/service"
)

var log = logging.Logger("echelond")

var (
	configFlag = flag.String("config", "", "TOML settings file; defaults are used when empty")
	bindFlag   = flag.String("bind", "", "override the [echelon] bind address")
)

func main() {
	flag.Parse()

	settings := service.DefaultSettings()
	if *configFlag != "" {
		s, err := service.LoadSettings(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
			os.Exit(1)
		}
		settings = *s
	}
	if *bindFlag != "" {
		settings.Echelon.Bind = *bindFlag
	}
	if err := logging.SetLogLevel("*", settings.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q: %v\n", settings.Log.Level, err)
		os.Exit(1)
	}

	srv, err := service.NewServer(&settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
	srv.Start()

	var m *service.MetricsServer
	if settings.Metrics.Bind != "" {
		m = service.NewMetricsServer(settings.Metrics)
		if _, err := m.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start metrics: %v\n", err)
			srv.Stop()
			os.Exit(1)
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	log.Infof("received %s, shutting down", <-sig)

	if m != nil {
		if err := m.Stop(); err != nil {
			log.Warnf("metrics: %v", err)
		}
	}
	if err := srv.Stop(); err != nil {
		log.Warnf("server: %v", err)
	}
}
