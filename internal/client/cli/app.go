// Package cli implements the interactive console client for the contest
// server: a read-eval-print loop over the connection proxy that also
// prints live notifications as other sessions register participants.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/culbec/motocontest/internal/client/config"
	"github.com/culbec/motocontest/internal/client/proxy"
	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
)

type App struct {
	config *config.Config
	logger logging.Logger
	proxy  *proxy.Proxy
	user   *model.User
	reader *bufio.Reader
}

// NewApp connects to the server and wires notification handlers that
// print to the console. The connection stays open for the whole session.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewDefault()

	handlers := proxy.Handlers{
		ParticipantAdded: func(p model.Participant) {
			printlnFn(fmt.Sprintf("* participant registered: %s %s (%s, %dcc)", p.FirstName, p.LastName, p.Team, p.EngineCapacity))
		},
		ServerShutdown: func() {
			printlnFn("* server closed the connection")
		},
	}

	p, err := proxy.Dial(context.Background(), c.Addr(), logger, handlers)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.Addr(), err)
	}

	return &App{config: c, logger: logger, proxy: p, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.proxy.Close()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) status() string {
	if a.user == nil {
		return "not logged in"
	}
	return a.user.Username
}

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetSimpleText(a.reader, "Password", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.proxy.Login(ctx, username, password)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.user = user
	printlnFn(fmt.Sprintf("Welcome, %s %s!", user.FirstName, user.LastName))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if a.user == nil {
		printlnFn("Not logged in.")
		return common.ErrNotLoggedIn
	}

	if err := a.proxy.Logout(ctx, *a.user); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}

	a.user = nil
	printlnFn("Logged out.")
	return nil
}

func (a *App) AddParticipant(ctx context.Context) error {
	firstName, err := GetSimpleText(a.reader, "First name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.reader, "Last name", os.Stdout)
	if err != nil {
		return err
	}
	team, err := GetSimpleText(a.reader, "Team", os.Stdout)
	if err != nil {
		return err
	}
	capacity, err := GetInt(a.reader, "Engine capacity (cc)", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.proxy.AddParticipant(ctx, firstName, lastName, team, capacity)
	if err != nil {
		printlnFn("Could not add participant:", err.Error())
		return err
	}

	printlnFn("Added participant", p.ID.String())
	return nil
}

func (a *App) FindByTeam(ctx context.Context) error {
	team, err := GetSimpleText(a.reader, "Team", os.Stdout)
	if err != nil {
		return err
	}

	found, err := a.proxy.FindParticipantsByTeam(ctx, team)
	if err != nil {
		printlnFn("Search failed:", err.Error())
		return err
	}

	if len(found) == 0 {
		printlnFn("No participants in team", team)
		return nil
	}
	for _, p := range found {
		printlnFn(fmt.Sprintf("%s %s (%dcc)", p.FirstName, p.LastName, p.EngineCapacity))
	}
	return nil
}

func (a *App) ListRaces(ctx context.Context) error {
	races, err := a.proxy.FindAllRaces(ctx)
	if err != nil {
		printlnFn("Could not list races:", err.Error())
		return err
	}

	for _, r := range races {
		printlnFn(fmt.Sprintf("%dcc race: %d participant(s)", r.EngineCapacity, r.NoParticipants))
	}
	return nil
}

func (a *App) ListCapacities(ctx context.Context) error {
	capacities, err := a.proxy.FindAllRaceEngineCapacities(ctx)
	if err != nil {
		printlnFn("Could not list engine capacities:", err.Error())
		return err
	}

	out := ""
	for i, c := range capacities {
		if i > 0 {
			out += ", "
		}
		out += strconv.Itoa(c) + "cc"
	}
	printlnFn("Race classes:", out)
	return nil
}
