package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	client "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Client"
	config "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Config"
	logger "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Logger"
)

// The monitor is a headless dashboard consumer: it runs the polling
// loop against the read API and logs every state transition.
func main() {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	log := logger.NewLogger(&cfg.Logging).WithService("monitor")
	log.Info("Starting Monitor Service")

	apiClient := client.NewAPIClient(cfg.ApiServiceURL, cfg.RequestTimeout)

	// Reads are public; a stored token is attached anyway so /api/auth/me
	// style calls work for a logged-in operator.
	tokenStore, err := client.NewTokenStore(cfg.TokenPath)
	if err != nil {
		log.FatalWithError(err, "Failed to open token store")
	}
	if token, err := tokenStore.Load(); err != nil {
		log.ErrorWithError(err, "Failed to load stored token")
	} else if token != "" {
		apiClient.SetToken(token)
	}

	poller := client.NewPoller(apiClient, cfg.PollInterval)
	poller.OnUpdate = func(snap client.Snapshot) {
		switch snap.State {
		case client.StateReady:
			log.WithField("records", len(snap.Records)).
				WithField("device", snap.DeviceID).
				Info("Telemetry updated")
		case client.StateFailed:
			log.WithField("error", snap.Err).Warn("Telemetry fetch failed, will retry on next tick")
		}
	}

	if cfg.DeviceID != "" {
		poller.SetDevice(cfg.DeviceID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go poller.Run(ctx)

	log.Info("Monitor running... press Ctrl+C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("Shutting down...")
}
