package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nxadm/tail"
	"github.com/urfave/cli/v2"

	"comrade/bot"
	"comrade/cf"
	"comrade/config"
	"comrade/models"
	"comrade/sites"
	"comrade/validation"
)

// console is the only conversation a terminal user has.
var console = bot.Conversation{ChannelID: "console", UserID: "console"}

type cliState struct {
	cfg      config.Config
	closeLog func()
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	st := &cliState{}

	app := &cli.App{
		Name:    "comrade",
		Usage:   "Read NHentai galleries through whichever source is reachable",
		Version: config.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: config.DefaultDirectory, Usage: "Directory holding config.json, logs and the blob cache"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Also write log output to stderr"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config-dir"))
			if err != nil {
				return err
			}
			st.cfg = cfg
			closeLog, err := setupLogging(cfg, c.Bool("verbose"))
			if err != nil {
				return err
			}
			st.closeLog = closeLog
			return nil
		},
		After: func(c *cli.Context) error {
			if st.closeLog != nil {
				st.closeLog()
			}
			return nil
		},
		Commands: []*cli.Command{
			galleryCmd(st),
			searchCmd(st),
			readCmd(st),
			sourcesCmd(st),
			cfCmd(),
			logsCmd(st),
			versionCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func galleryCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:      "gallery",
		Usage:     "Show a gallery's start page and mirror its first pages",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "spoiler", Usage: "Mark images as spoilers"},
			&cli.IntFlag{Name: "page", Usage: "Jump to this page after opening (0 is the cover)", Value: -1},
		},
		Action: func(c *cli.Context) error {
			id, err := validation.ValidateGalleryID(c.Args().First())
			if err != nil {
				return err
			}

			p, err := newPipeline(st.cfg, &consoleResponder{w: c.App.Writer})
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			if err := p.handler.OpenGallery(ctx, console, id, c.Bool("spoiler")); err != nil {
				return err
			}
			if n := c.Int("page"); n >= 0 {
				if _, ok := p.handler.GallerySession(console); ok {
					return p.handler.GotoPage(ctx, console, n)
				}
			}
			return nil
		},
	}
}

func searchCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search galleries by tags or title",
		ArgsUsage: "<query...>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "recent, today, week or all-time"},
			&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Results page to show"},
		},
		Action: func(c *cli.Context) error {
			sort, err := validation.ValidateSortOrder(c.String("sort"))
			if err != nil {
				return err
			}

			p, err := newPipeline(st.cfg, &consoleResponder{w: c.App.Writer})
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			query := strings.Join(c.Args().Slice(), " ")
			if err := p.handler.Search(ctx, console, query, sort); err != nil {
				return err
			}
			if n := c.Int("page"); n > 1 {
				if _, ok := p.handler.SearchSession(console); ok {
					return p.handler.SearchPage(ctx, console, n)
				}
			}
			return nil
		},
	}
}

func readCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Read a gallery interactively (np, pp, page N, q)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "spoiler", Usage: "Mark images as spoilers"},
		},
		Action: func(c *cli.Context) error {
			id, err := validation.ValidateGalleryID(c.Args().First())
			if err != nil {
				return err
			}

			p, err := newPipeline(st.cfg, &consoleResponder{w: c.App.Writer})
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			if err := p.handler.OpenGallery(ctx, console, id, c.Bool("spoiler")); err != nil {
				return err
			}

			scanner := bufio.NewScanner(c.App.Reader)
			for {
				sess, ok := p.handler.GallerySession(console)
				if !ok {
					return nil
				}
				fmt.Fprint(c.App.Writer, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}

				line := strings.TrimSpace(scanner.Text())
				switch fields := strings.Fields(strings.ToLower(line)); {
				case len(fields) == 0:
					continue
				case fields[0] == "q" || fields[0] == "quit":
					return nil
				case fields[0] == "page" && len(fields) == 2:
					n, err := validation.ValidatePageNumber(fields[1], 0, sess.Len())
					if err != nil {
						fmt.Fprintln(c.App.Writer, err)
						continue
					}
					err = p.handler.GotoPage(ctx, console, n)
					if err != nil {
						return err
					}
				default:
					handled, err := p.handler.HandleText(ctx, console, line)
					if err != nil {
						return err
					}
					if !handled {
						fmt.Fprintln(c.App.Writer, "commands: np, pp, page N, q")
					}
				}
			}
		},
	}
}

func sourcesCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "List sources in the order they are tried",
		Action: func(c *cli.Context) error {
			sourcesCfg, err := sites.LoadSourcesConfig(st.cfg.SourcesFile)
			if err != nil {
				return err
			}
			sources, err := sites.NewRegistry(sourcesCfg, nil)
			if err != nil {
				return err
			}

			for i, src := range sources {
				search := "gallery only"
				if src.SupportsSearch() {
					search = "gallery + search"
				}
				fmt.Fprintf(c.App.Writer, "%d. %s (%s, %s)\n   %s\n", i+1, src.Name(), src.Kind(), search, src.GalleryURL(177013))
			}
			return nil
		},
	}
}

func cfCmd() *cli.Command {
	return &cli.Command{
		Name:  "cf",
		Usage: "Manage stored anti-bot bypass cookies",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import cookies exported from a browser",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read the export from a JSON file"},
					&cli.BoolFlag{Name: "clipboard", Usage: "Read the export from the clipboard"},
				},
				Action: func(c *cli.Context) error {
					var (
						domain string
						err    error
					)
					switch {
					case c.String("file") != "":
						domain, err = cf.ImportFromFile(c.String("file"))
					case c.Bool("clipboard"):
						domain, err = cf.ImportFromClipboard()
					default:
						return errors.New("one of --file or --clipboard is required")
					}
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Imported bypass data for %s\n", domain)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List domains with stored cookies",
				Action: func(c *cli.Context) error {
					domains, err := cf.ListStoredDomains()
					if err != nil {
						return err
					}
					for _, d := range domains {
						status := "valid"
						data, err := cf.LoadFromFile(d)
						if err != nil {
							status = err.Error()
						} else if err := cf.ValidateCookieData(data); err != nil {
							status = err.Error()
						}
						fmt.Fprintf(c.App.Writer, "%s: %s\n", d, status)
					}
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Forget stored cookies for a domain",
				ArgsUsage: "<domain>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("exactly one domain is required")
					}
					return cf.DeleteDomain(c.Args().First())
				},
			},
		},
	}
}

func logsCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Print the log file",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "follow", Aliases: []string{"f"}, Usage: "Keep printing new lines"},
			&cli.IntFlag{Name: "lines", Aliases: []string{"n"}, Value: 50, Usage: "Lines of history to print"},
		},
		Action: func(c *cli.Context) error {
			path := st.cfg.LogFile()
			if info, err := os.Stat(path); err == nil {
				fmt.Fprintf(c.App.ErrWriter, "%s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
			}

			if err := printLastLines(c.App.Writer, path, c.Int("lines")); err != nil {
				return err
			}
			if !c.Bool("follow") {
				return nil
			}

			t, err := tail.TailFile(path, tail.Config{
				Follow:   true,
				ReOpen:   true,
				Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
				Logger:   tail.DiscardingLogger,
			})
			if err != nil {
				return fmt.Errorf("failed to follow %s: %w", path, err)
			}
			defer t.Cleanup()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			for {
				select {
				case line, ok := <-t.Lines:
					if !ok {
						return t.Err()
					}
					if line.Err != nil {
						return line.Err
					}
					fmt.Fprintln(c.App.Writer, line.Text)
				case <-ctx.Done():
					return t.Stop()
				}
			}
		},
	}
}

// printLastLines writes the final n lines of path.
func printLastLines(w io.Writer, path string, n int) error {
	if n <= 0 {
		return nil
	}

	t, err := tail.TailFile(path, tail.Config{MustExist: true, Logger: tail.DiscardingLogger})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer t.Cleanup()

	ring := make([]string, 0, n)
	for line := range t.Lines {
		if line.Err != nil {
			return line.Err
		}
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, line.Text)
	}
	for _, l := range ring {
		fmt.Fprintln(w, l)
	}
	return nil
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, config.VersionString())
			fmt.Fprintf(c.App.Writer, "sort orders: %s\n", sortOrderNames())
			return nil
		},
	}
}

func sortOrderNames() string {
	names := make([]string, 0, len(models.SortOrders))
	for _, s := range models.SortOrders {
		names = append(names, s.PrettyName())
	}
	return strings.Join(names, ", ")
}
