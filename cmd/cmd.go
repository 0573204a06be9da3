// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// syncCommand runs a reconciliation between the source and destination services.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync a playlist from Spotify to Tidal",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "exact",
				Usage: "Only accept exact matches, skip fuzzy candidates",
			},
			&cli.BoolFlag{
				Name:  "like",
				Usage: "Mark synced tracks as favorites on Tidal",
			},
			&cli.BoolFlag{
				Name:  "cleanup",
				Usage: "Remove Tidal tracks that are not in the source playlist",
			},
			&cli.BoolFlag{
				Name:  "auto",
				Usage: "Non-interactive mode: exact matches only, no review prompts",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Skip the confirmed-match cache",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent track searches",
			},
		},
		Action: r.SyncRun,
	}
}

// playlistsCommand lists playlists on either service.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "service",
				Aliases: []string{"s"},
				Usage:   "Service to list from (spotify or tidal)",
				Value:   "spotify",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Pick a playlist interactively and print its tracks",
			},
		},
		Action: r.Playlists,
	}
}

// exportCommand writes a playlist listing to a file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a playlist to CSV, Markdown or plain text",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "service",
				Aliases: []string{"s"},
				Usage:   "Service to export from (spotify or tidal)",
				Value:   "spotify",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, markdown or text",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (defaults to the playlist name)",
			},
		},
		Action: r.Export,
	}
}

// runsCommand shows recorded sync history.
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Show recent sync runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
		},
		Action: r.Runs,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show which service credentials are configured",
				Action: r.AuthStatus,
			},
			{
				Name:  "login",
				Usage: "Authorize with Spotify and obtain a refresh token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Address for the OAuth callback server",
						Value: "127.0.0.1:8888",
					},
				},
				Action: r.AuthLogin,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
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
			{
				Name:  "config",
				Usage: "Create a config.toml from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
