// Command repl is a minimal interactive shell over a client.Session:
// type a request line, see the decoded events stream back. It exists
// to exercise client/ and wire/ by hand; it is not part of the tested
// core (spec.md §1 calls the REPL surface an external collaborator).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tradewire/client"
	"tradewire/internal/config"
	"tradewire/wire"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args, "config")
	if err != nil {
		fmt.Fprintln(os.Stderr, "repl:", err)
		return 1
	}

	t, err := cfg.DialTransport()
	if err != nil {
		fmt.Fprintln(os.Stderr, "repl: dial:", err)
		return 1
	}
	defer t.Close()

	session := client.NewSession(t)
	proto, err := session.Detect()
	if err != nil {
		fmt.Fprintln(os.Stderr, "repl: detect:", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "connected, protocol=%s\ncommands: new <user> <symbol> <price> <qty> <B|S> <order-id>\n          cancel <user> <symbol> <order-id>\n          flush\n          quit\n", proto)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		req, err := parseLine(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "repl:", err)
			continue
		}
		if err := session.SendRequest(req); err != nil {
			fmt.Fprintln(os.Stderr, "repl: send:", err)
			continue
		}
		printResponses(session)
	}
	return 0
}

func parseLine(line string) (wire.Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return wire.Request{}, fmt.Errorf("empty command")
	}
	switch fields[0] {
	case "flush":
		return wire.FlushRequest(), nil
	case "cancel":
		if len(fields) != 4 {
			return wire.Request{}, fmt.Errorf("usage: cancel <user> <symbol> <order-id>")
		}
		user, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return wire.Request{}, err
		}
		orderID, err := strconv.ParseUint(fields[3], 10, 32)
		if err != nil {
			return wire.Request{}, err
		}
		return wire.CancelRequest(uint32(user), fields[2], uint32(orderID)), nil
	case "new":
		if len(fields) != 7 {
			return wire.Request{}, fmt.Errorf("usage: new <user> <symbol> <price> <qty> <B|S> <order-id>")
		}
		user, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return wire.Request{}, err
		}
		price, err := strconv.ParseUint(fields[3], 10, 32)
		if err != nil {
			return wire.Request{}, err
		}
		qty, err := strconv.ParseUint(fields[4], 10, 32)
		if err != nil {
			return wire.Request{}, err
		}
		side, err := wire.ParseSide(fields[5][0])
		if err != nil {
			return wire.Request{}, err
		}
		orderID, err := strconv.ParseUint(fields[6], 10, 32)
		if err != nil {
			return wire.Request{}, err
		}
		return wire.NewOrderRequest(uint32(user), fields[2], uint32(price), uint32(qty), side, uint32(orderID)), nil
	default:
		return wire.Request{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

func printResponses(session *client.Session) {
	results := session.Drain(client.DrainOptions{
		PollDeadline:   50 * time.Millisecond,
		MaxEmptyPolls:  4,
		BudgetDeadline: time.Now().Add(500 * time.Millisecond),
	})
	for _, r := range results {
		if r.ParseError != nil {
			fmt.Fprintln(os.Stderr, "parse error:", r.ParseError)
			continue
		}
		fmt.Printf("%+v\n", r.Event)
	}
}
