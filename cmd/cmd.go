// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the local database and configuration
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// libraryCommand handles catalog browsing and export
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse the music catalog",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "List all tracks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LibraryTracks,
			},
			{
				Name:  "albums",
				Usage: "List all albums",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LibraryAlbums,
			},
			{
				Name:  "artists",
				Usage: "List all artists",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LibraryArtists,
			},
			{
				Name:  "playlists",
				Usage: "List all playlists",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LibraryPlaylists,
			},
			{
				Name:  "search",
				Usage: "Search tracks, albums, artists and playlists",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LibrarySearch,
			},
			{
				Name:  "export",
				Usage: "Export a playlist as CSV or markdown",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv or markdown)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.LibraryExport,
			},
		},
	}
}

// cacheCommand handles offline cache inspection and maintenance
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and maintain the offline catalog cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached entries with size and age",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:  "stats",
				Usage: "Show cache totals grouped by entry kind",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:   "purge",
				Usage:  "Remove expired cache entries",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CachePurge,
			},
			{
				Name:   "evict",
				Usage:  "Evict least-recently-used entries until the cache fits its budget",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheEvict,
			},
			{
				Name:  "clear",
				Usage: "Remove cached entries, keeping protected ones",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Remove protected entries too",
					},
				},
				Action: r.CacheClear,
			},
			{
				Name:   "warm",
				Usage:  "Prefetch the full catalog into the cache",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheWarm,
			},
		},
	}
}

// queueCommand inspects the persisted playback queue
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Inspect the saved playback queue",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the saved queue and position",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.QueueShow,
			},
			{
				Name:   "clear",
				Usage:  "Discard the saved queue",
				Flags:  []cli.Flag{configFlag()},
				Action: r.QueueClear,
			},
		},
	}
}

// favoritesCommand manages the favorites list
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite tracks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorite track IDs",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Mark a track as favorite",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a track from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.FavoritesRemove,
			},
		},
	}
}

// recentCommand shows listening history
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show recently played tracks",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.RecentList,
	}
}

// playCommand launches the interactive player
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Launch the interactive player",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "no-restore",
				Usage: "Start with an empty queue instead of the saved session",
			},
		},
		Action: r.Play,
	}
}
