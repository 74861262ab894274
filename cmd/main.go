package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"secret-santa/conversation"
	"secret-santa/copytext"
	"secret-santa/internal"
	"secret-santa/relay"
	"secret-santa/repositories"
	"secret-santa/runtime"
	"secret-santa/runtime/workers"
	"secret-santa/services"
	"secret-santa/transport/console"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run keeps every defer (database close first) on the exit path.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	consoleConfig, err := console.LoadConfig()
	if err != nil {
		return fmt.Errorf("console config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	cities := config.Cities()
	admins, err := config.Admins()
	if err != nil {
		return err
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Core
	participants := repositories.NewParticipantRepository(db, log)
	threads := repositories.NewThreadRepository(db)
	moderator, err := runtime.NewModerator(config.ModerationEnabled, charReplacement, log)
	if err != nil {
		return err
	}
	catalog, err := copytext.Default(cities)
	if err != nil {
		return err
	}
	router := relay.NewRouter(participants, threads, moderator, log, time.Now)
	machine := conversation.NewMachine(router, cities, log)
	admin := services.NewAdminService(participants, cities, admins, log)
	santa := services.NewSantaService(participants, machine, admin, catalog, log)

	// 4. Engine & transport
	sup := workers.NewSupervisor(log, config.RestartInterval)
	printer := console.NewPrinter(os.Stdout, consoleConfig.Colours)
	engine := runtime.NewEngine(log, sup, santa, printer,
		config.NumberOfWorkers, config.BufferSize, config.SinkTimeout)
	if consoleConfig.Enabled {
		sup.Add(console.NewSource(os.Stdin, engine, log))
	}

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineDone := make(chan error, 1)
	go func() {
		engineDone <- engine.Start(ctx)
	}()

	// 6. gRPC health endpoint
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		engine.Stop()
		<-engineDone
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	reflection.Register(s)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gRPC health server", "address", address, "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case runErr = <-errChan:
	case runErr = <-engineDone:
		engineDone <- runErr
	}

	// 8. Final Cleanup
	healthServer.Shutdown()
	s.GracefulStop()
	engine.Stop()
	<-engineDone
	log.Info("Program stopped cleanly")
	return runErr
}
