package main

import (
	"context"
	"os"
	"os/signal"
	"recoverme/internal/app/consumers"
	"recoverme/internal/app/deps"
	"recoverme/internal/core/domain/logging"
	"syscall"
)

func main() {
	deps, shutdownDeps := deps.InitMailerDeps()
	log := deps.Logger
	defer shutdownDeps()

	done, stopConsumers := consumers.InitConsumers(deps)
	defer stopConsumers()

	stopCh, closeCh := createChannel()
	defer closeCh()

	select {
	case sig := <-stopCh:
		log.Info(context.Background(), "Stopping mailer.", logging.Entry("signal", sig.String()))
	case <-done:
		log.Warning(context.Background(), "Mail queue consumer has stopped, exiting.")
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
