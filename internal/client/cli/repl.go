package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddParticipant(ctx context.Context) error
	FindByTeam(ctx context.Context) error
	ListRaces(ctx context.Context) error
	ListCapacities(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the contest client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - add            — register a participant
//	  - team           — list participants of a team
//	  - races          — list races with participant counts
//	  - classes        — list engine capacity classes
//	  - logout         — log out and disconnect
//	  - exit | quit    — leave the program
//
// Commands from the logged-in set are rejected with a hint until the user
// has logged in. Any errors returned by command handlers are ignored here;
// handlers report their own errors. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("moto> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, team, races, classes, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "add":
			if !requireLogin(a) {
				continue
			}
			_ = a.AddParticipant(ctx)

		case "team":
			if !requireLogin(a) {
				continue
			}
			_ = a.FindByTeam(ctx)

		case "races":
			if !requireLogin(a) {
				continue
			}
			_ = a.ListRaces(ctx)

		case "classes":
			if !requireLogin(a) {
				continue
			}
			_ = a.ListCapacities(ctx)

		case "logout":
			if !requireLogin(a) {
				continue
			}
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// requireLogin reports whether a session exists, telling the user off
// otherwise.
func requireLogin(a execIface) bool {
	if !a.isLoggedIn() {
		printlnFn("Please login first.")
		return false
	}
	return true
}
