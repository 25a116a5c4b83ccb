// FILE: lixenwraith/tradelog/cmd/feedsim/cmd_serve.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/panjf2000/gnet/v2"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/tradelog"
	"github.com/lixenwraith/tradelog/compat"
	"github.com/lixenwraith/tradelog/msg"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept a line-based market-data feed over TCP and log every record",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", "tcp://127.0.0.1:9000", "Feed listen address")
	serveCmd.Flags().String("stats", "127.0.0.1:9080", "Stats HTTP listen address (empty disables)")
	serveCmd.Flags().Duration("shutdown-timeout", 2*time.Second, "Time allowed for loggers to drain on exit")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")
	statsAddr, _ := cmd.Flags().GetString("stats")
	shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

	cfg, err := loadLoggerConfig(cmd)
	if err != nil {
		return err
	}

	// The event loop is the only producer of the feed logger
	feedLogger, err := tradelog.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create feed logger: %w", err)
	}
	defer feedLogger.Shutdown(shutdownTimeout)

	// gnet and fasthttp log from their own goroutines and share a second, unpinned logger
	fwCfg := cfg.Clone()
	fwCfg.EnablePinning = false
	fwCfg.Name = cfg.Name + "-framework"
	frameworkLogger, err := tradelog.New(fwCfg)
	if err != nil {
		return fmt.Errorf("failed to create framework logger: %w", err)
	}
	builder := compat.NewBuilder().WithLogger(frameworkLogger)
	shared, _ := builder.GetLogger()
	defer shared.Shutdown(shutdownTimeout)

	gnetLogger, err := builder.BuildGnet(compat.WithFatalHandler(func(text string) {
		_ = feedLogger.Shutdown(shutdownTimeout)
		_ = shared.Shutdown(shutdownTimeout)
		fmt.Fprintf(os.Stderr, "feedsim: gnet fatal: %s\n", text)
		os.Exit(1)
	}))
	if err != nil {
		return err
	}
	httpLogger, err := builder.BuildFastHTTP()
	if err != nil {
		return err
	}

	server := newFeedServer(feedLogger)

	ctx, cancel := contextWithSignal(cmd.Context())
	defer cancel()

	var httpServer *fasthttp.Server
	if statsAddr != "" {
		httpServer = &fasthttp.Server{
			Handler:      statsHandler(server, frameworkLogger),
			Logger:       httpLogger,
			Name:         "feedsim",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		go func() {
			if err := httpServer.ListenAndServe(statsAddr); err != nil {
				_ = shared.Log(msg.Warning{Message: "stats server stopped: " + err.Error()})
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- gnet.Run(server, listen,
			gnet.WithMulticore(false),
			gnet.WithLogger(gnetLogger),
			gnet.WithTCPNoDelay(gnet.TCPNoDelay),
		)
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "feedsim listening on %s\n", listen)

	select {
	case err = <-errCh:
	case <-ctx.Done():
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		if eng := server.eng.Load(); eng != nil {
			err = eng.Stop(stopCtx)
			<-errCh
		}
	}

	if httpServer != nil {
		_ = httpServer.Shutdown()
	}
	return err
}
