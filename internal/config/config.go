// Package config implements the defaults < file < env < CLI shallow
// merge spec.md §6 assigns to the external configuration collaborator,
// shared by cmd/relay and cmd/scenario-runner.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tradewire/transport"
)

// connectTimeout bounds a stream dial attempt.
const connectTimeout = 5 * time.Second

// Config is the flat set of fields both entrypoints need. Every field
// has a zero-value-safe default applied by Defaults.
type Config struct {
	EngineAddr     string   `json:"engineAddr"`
	Transport      string   `json:"transport"`      // "tcp", "udp", "multicast"
	MulticastGroup string   `json:"multicastGroup"` // "group:port"; a group without a port fails to join
	MulticastIface string   `json:"multicastIface"`
	WSHost         string   `json:"wsHost"`
	WSPort         int      `json:"wsPort"`
	Filter         []string `json:"filter"` // event kind names; empty means the relay default
	Verbose        bool     `json:"verbose"`
}

// Defaults returns the built-in baseline every other layer merges
// over.
func Defaults() Config {
	return Config{
		EngineAddr: "127.0.0.1:9000",
		Transport:  "tcp",
		WSHost:     "0.0.0.0",
		WSPort:     8080,
	}
}

// Load applies, in increasing precedence, Defaults, an optional JSON
// file, environment variables (uppercase field names, e.g.
// ENGINE_ADDR), then CLI flags parsed from args. It returns
// (nil, err) with a human-readable message on any validation failure,
// matching spec.md §6's "exit 1 on validation failure" contract for
// its caller to act on.
func Load(args []string, configFileFlag string) (*Config, error) {
	cfg := Defaults()

	filePath := scanFlagValue(args, configFileFlag)
	if filePath != "" {
		if err := mergeFile(&cfg, filePath); err != nil {
			return nil, err
		}
	}

	mergeEnv(&cfg)

	fs := flag.NewFlagSet("tradewire", flag.ContinueOnError)
	engineAddr := fs.String("engine-addr", cfg.EngineAddr, "engine host:port")
	transport := fs.String("transport", cfg.Transport, "tcp, udp, or multicast")
	mcastGroup := fs.String("multicast-group", cfg.MulticastGroup, "multicast group:port (port required)")
	mcastIface := fs.String("multicast-iface", cfg.MulticastIface, "multicast interface name")
	wsHost := fs.String("ws-host", cfg.WSHost, "WebSocket bind host")
	wsPort := fs.Int("ws-port", cfg.WSPort, "WebSocket bind port")
	filter := fs.String("filter", strings.Join(cfg.Filter, ","), "comma-separated event kinds to forward")
	verbose := fs.Bool("verbose", cfg.Verbose, "enable debug logging")
	fs.String(configFileFlag, filePath, "path to a JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.EngineAddr = *engineAddr
	cfg.Transport = *transport
	cfg.MulticastGroup = *mcastGroup
	cfg.MulticastIface = *mcastIface
	cfg.WSHost = *wsHost
	cfg.WSPort = *wsPort
	cfg.Verbose = *verbose
	if *filter != "" {
		cfg.Filter = splitAndTrim(*filter)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.Transport {
	case "tcp", "udp", "multicast":
	default:
		return fmt.Errorf("config: unknown transport %q, want tcp, udp, or multicast", c.Transport)
	}
	if c.Transport == "multicast" && c.MulticastGroup == "" {
		return fmt.Errorf("config: multicast transport requires -multicast-group")
	}
	if c.WSPort <= 0 || c.WSPort > 65535 {
		return fmt.Errorf("config: invalid ws-port %d", c.WSPort)
	}
	return nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	overlay(cfg, fileCfg)
	return nil
}

// overlay merges non-zero fields of src into dst, implementing the
// shallow "later layer wins per set field" precedence rule.
func overlay(dst *Config, src Config) {
	if src.EngineAddr != "" {
		dst.EngineAddr = src.EngineAddr
	}
	if src.Transport != "" {
		dst.Transport = src.Transport
	}
	if src.MulticastGroup != "" {
		dst.MulticastGroup = src.MulticastGroup
	}
	if src.MulticastIface != "" {
		dst.MulticastIface = src.MulticastIface
	}
	if src.WSHost != "" {
		dst.WSHost = src.WSHost
	}
	if src.WSPort != 0 {
		dst.WSPort = src.WSPort
	}
	if len(src.Filter) > 0 {
		dst.Filter = src.Filter
	}
	if src.Verbose {
		dst.Verbose = src.Verbose
	}
}

func mergeEnv(cfg *Config) {
	env := Config{
		EngineAddr:     os.Getenv("ENGINE_ADDR"),
		Transport:      os.Getenv("TRANSPORT"),
		MulticastGroup: os.Getenv("MULTICAST_GROUP"),
		MulticastIface: os.Getenv("MULTICAST_IFACE"),
		WSHost:         os.Getenv("WS_HOST"),
	}
	if v := os.Getenv("WS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			env.WSPort = n
		}
	}
	if v := os.Getenv("FILTER"); v != "" {
		env.Filter = splitAndTrim(v)
	}
	if v := os.Getenv("VERBOSE"); v != "" {
		env.Verbose = v == "1" || strings.EqualFold(v, "true")
	}
	overlay(cfg, env)
}

// scanFlagValue looks up a -name/--name/-name=value flag directly,
// ahead of full parsing, so the config-file path can be read before
// the rest of the flag set is even defined.
func scanFlagValue(args []string, name string) string {
	prefix1 := "-" + name
	prefix2 := "--" + name
	for i, arg := range args {
		switch {
		case arg == prefix1 || arg == prefix2:
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, prefix1+"="):
			return strings.TrimPrefix(arg, prefix1+"=")
		case strings.HasPrefix(arg, prefix2+"="):
			return strings.TrimPrefix(arg, prefix2+"=")
		}
	}
	return ""
}

// DialTransport opens the transport named by c.Transport: a stream
// connection to EngineAddr, a datagram socket connected to EngineAddr,
// or a receive-only multicast join on MulticastGroup/MulticastIface.
// c is assumed already validated by Load.
func (c Config) DialTransport() (transport.Transport, error) {
	switch c.Transport {
	case "tcp":
		return transport.DialStream(c.EngineAddr, connectTimeout)
	case "udp":
		return transport.DialDatagram(c.EngineAddr)
	case "multicast":
		return transport.JoinMulticast(c.MulticastGroup, c.MulticastIface)
	default:
		return nil, fmt.Errorf("config: unknown transport %q", c.Transport)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
