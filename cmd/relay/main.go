// Command relay dials a matching engine over the configured transport
// and fans its event stream out to WebSocket subscribers.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tradewire/client"
	"tradewire/internal/config"
	"tradewire/internal/logging"
	"tradewire/relay"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args, "config")
	if err != nil {
		fmt.Fprintln(os.Stderr, "relay:", err)
		return 1
	}

	log, err := logging.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "relay: logger init:", err)
		return 1
	}
	defer log.Sync()

	filter, err := relay.ParseFilterNames(cfg.Filter)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}

	t, err := cfg.DialTransport()
	if err != nil {
		log.Errorf("dial engine at %s: %v", cfg.EngineAddr, err)
		return 1
	}

	session := client.NewSession(t)
	if cfg.Transport != "multicast" { // a multicast join cannot send the probes
		if _, err := session.Detect(); err != nil {
			log.Errorf("protocol detection: %v", err)
			return 1
		}
	}
	log.Infof("connected to engine at %s (protocol %s)", cfg.EngineAddr, session.Protocol())

	metrics := relay.NewMetrics("tradewire_relay")
	srv := relay.NewServer(session, filter, metrics, log)
	srv.Start()
	defer srv.Shutdown()

	addr := fmt.Sprintf("%s:%d", cfg.WSHost, cfg.WSPort)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Routes()}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Infof("relay listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("http server: %v", err)
			return 1
		}
	case sig := <-sigCh:
		log.Infof("received %s, shutting down", sig)
		_ = httpSrv.Close()
	}
	return 0
}
