// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles session lifecycle operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Spotify session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Spotify in the browser (PKCE flow)",
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear stored credentials",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether a usable session exists",
				Action: r.AuthStatus,
			},
			{
				Name:  "profile",
				Usage: "Show the authenticated account profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AuthProfile,
			},
		},
	}
}

// searchCommand searches the provider catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Search,
	}
}

// playerCommand drives playback on the active device
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "Control playback on the active device",
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "Start or resume playback",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "Track URI to play (omit to resume)",
					},
					&cli.IntFlag{
						Name:  "position",
						Usage: "Start position in milliseconds",
					},
				},
				Action: r.PlayerPlay,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Action: r.PlayerPause,
			},
			{
				Name:  "seek",
				Usage: "Move the playhead of the current track",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "position",
						Usage:    "Position in milliseconds",
						Required: true,
					},
				},
				Action: r.PlayerSeek,
			},
			{
				Name:   "status",
				Usage:  "Show what is currently playing",
				Action: r.PlayerStatus,
			},
			{
				Name:   "devices",
				Usage:  "List available playback devices",
				Action: r.PlayerDevices,
			},
		},
	}
}

// rosterCommand manages the walk-up roster
func rosterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "roster",
		Usage: "Manage the walk-up roster",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Assign a walk-up song to a player",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "player"},
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "start",
						Usage: "Cue start within the track, milliseconds",
					},
					&cli.IntFlag{
						Name:  "length",
						Usage: "Cue length in milliseconds (0 plays to the end)",
					},
				},
				Action: r.RosterSet,
			},
			{
				Name:  "list",
				Usage: "Show the roster with assigned tracks",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.RosterList,
			},
			{
				Name:  "remove",
				Usage: "Remove a player from the roster",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "player"},
				},
				Action: r.RosterRemove,
			},
			{
				Name:  "export",
				Usage: "Export the roster as a lineup card",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: csv, markdown, or text",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (format-specific default)",
					},
					&cli.StringFlag{
						Name:  "team",
						Usage: "Team name for the lineup card heading",
					},
				},
				Action: r.RosterExport,
			},
			{
				Name:    "walkup",
				Aliases: []string{"cue"},
				Usage:   "Cue a player's walk-up track on the active device",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "player"},
				},
				Action: r.RosterWalkUp,
			},
		},
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for game-day cueing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for walk-up cues",
		Action:  r.TUI,
	}
}
