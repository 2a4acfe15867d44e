// Command scenario-runner drives a single named scenario against an
// engine and prints the spec's pass/fail verdict banner.
package main

import (
	"flag"
	"fmt"
	"os"

	"tradewire/client"
	"tradewire/internal/config"
	"tradewire/internal/logging"
	"tradewire/scenario"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("scenario-runner", flag.ContinueOnError)
	scenarioID := fs.Int("scenario", 0, "scenario catalog id to run")
	if err := fs.Parse(peel(args, "-scenario")); err != nil {
		return 1
	}

	cfgArgs := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "-scenario" && i+1 < len(args) {
			i++
			continue
		}
		if _, ok := trimEq(args[i], "-scenario"); ok {
			continue
		}
		cfgArgs = append(cfgArgs, args[i])
	}

	cfg, err := config.Load(cfgArgs, "config")
	if err != nil {
		fmt.Fprintln(os.Stderr, "scenario-runner:", err)
		return 1
	}

	log, err := logging.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scenario-runner: logger init:", err)
		return 1
	}
	defer log.Sync()

	t, err := cfg.DialTransport()
	if err != nil {
		log.Errorf("dial engine at %s: %v", cfg.EngineAddr, err)
		return 1
	}
	defer t.Close()

	session := client.NewSession(t)
	if _, err := session.Detect(); err != nil {
		log.Errorf("protocol detection: %v", err)
		return 1
	}
	log.Infof("connected to engine at %s (protocol %s)", cfg.EngineAddr, session.Protocol())

	result := scenario.Run(session, *scenarioID, scenario.Options{Logger: log})

	log.Infof("scenario %d: acks=%d cancel-acks=%d trades=%d rejects=%d parse-errors=%d elapsed=%s",
		*scenarioID, result.Stats.Acks, result.Stats.CancelAcks, result.Stats.Trades,
		result.Stats.Rejects, result.Stats.ParseErrors, result.Elapsed)

	if result.Passed {
		fmt.Println("*** TEST PASSED ***")
		return 0
	}
	fmt.Println("*** TEST FAILED ***")
	if result.Reason != "" {
		fmt.Fprintf(os.Stderr, "reason: %s\n", result.Reason)
	}
	if result.Detail != "" {
		fmt.Fprintln(os.Stderr, result.Detail)
	}
	return 1
}

// peel extracts just the -scenario N pair from args so a dedicated
// FlagSet can parse it without tripping over config's own flags.
func peel(args []string, name string) []string {
	for i, a := range args {
		if a == name && i+1 < len(args) {
			return []string{name, args[i+1]}
		}
		if v, ok := trimEq(a, name); ok {
			return []string{name, v}
		}
	}
	return nil
}

func trimEq(arg, name string) (string, bool) {
	prefix := name + "="
	if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
		return arg[len(prefix):], true
	}
	return "", false
}
