// Command martianrobots simulates robots exploring a rectangular plateau on
// Mars.
//
// It supports these modes:
//  1. batch (-f FILE) – reads one instruction file and prints one report per robot
//  2. interactive (default) – reads batches from stdin, each ended by a blank line
//  3. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  4. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from mars.yaml (or --settings), environment variables (a .env
// file is loaded when present) and flags, in increasing order of precedence.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/martianrobots/mars/config"
	"github.com/wricardo/mcp-training/martianrobots/output"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Martian Robots"
)

// errReported marks an error that has already been printed to the user
var errReported = errors.New("error already reported")

// main loads the environment and runs the command line
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "martianrobots",
		Usage:   "Simulate robots exploring the surface of Mars",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "run the instruction file and exit",
			},
			&cli.StringFlag{
				Name:    "settings",
				Value:   "mars.yaml",
				Usage:   "settings file",
				Sources: cli.EnvVars("MARS_SETTINGS"),
			},
			&cli.BoolFlag{
				Name:  "extended",
				Usage: "accept the B (backward), I (strafe left) and D (strafe right) commands",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable coloured output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print error details",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: runCLI,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags:  serverFlags(true),
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "run an MCP stdio server backed by the HTTP API",
				Flags:  serverFlags(false),
				Action: runMCP,
			},
			{
				Name:  "version",
				Usage: "show version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

// serverFlags returns the flags shared by the serve and mcp commands
func serverFlags(withNgrok bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "HTTP server host",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "HTTP server port",
		},
		&cli.StringFlag{
			Name:    "scenario-dir",
			Usage:   "directory containing scenario files",
			Sources: cli.EnvVars("MARS_SCENARIO_DIR"),
		},
	}
	if !withNgrok {
		return flags
	}
	return append(flags,
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	)
}

// loadSettings reads the settings file and applies flag overrides
func loadSettings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.Load(cmd.String("settings"))
	if err != nil {
		return nil, err
	}

	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	if cmd.Bool("extended") {
		settings.Commands.AllowExtended = true
	}
	if cmd.Bool("no-color") {
		settings.Color = string(output.ColorNever)
	}
	if cmd.IsSet("host") {
		settings.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("scenario-dir") {
		settings.ScenarioDir = cmd.String("scenario-dir")
	}
	if cmd.IsSet("ngrok") {
		settings.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-domain") {
		settings.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	return settings, settings.Validate()
}
