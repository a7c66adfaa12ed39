package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"nanopack/internal/asset"
	"nanopack/internal/config"
	"nanopack/internal/errors"
	"nanopack/internal/gsuite"
	"nanopack/internal/inventory"
	"nanopack/internal/ops"
	"nanopack/internal/template"
	"nanopack/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "nanopack",
		Usage:   "Packaging artwork studio",
		Version: Version,
		Commands: []*cli.Command{
			saveCmd(db),
			listCmd(db),
			deleteCmd(db),
			bundleCmd(db),
			templatesCmd(),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// saveCmd creates the save command.
func saveCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save an artwork variant to the library (payload from --file or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Project name", Required: true},
			&cli.IntFlag{Name: "variant", Aliases: []string{"n"}, Value: 1, Usage: "Variant number"},
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: "raster", Usage: "Payload kind: raster|vector"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read payload from a file instead of stdin"},
			&cli.IntFlag{Name: "width", Usage: "Pixel width (optional)"},
			&cli.IntFlag{Name: "height", Usage: "Pixel height (optional)"},
		},
		Action: func(c *cli.Context) error {
			var payload string
			if path := c.String("file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot read payload file: %v", err)))
				}
				payload = string(data)
			} else {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("payload must be piped via stdin or passed with --file"))
				}
				data, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				payload = data
			}

			input := ops.SaveInput{
				ProjectName: c.String("project"),
				Variant:     c.Int("variant"),
				Kind:        asset.Kind(c.String("kind")),
				Payload:     payload,
			}
			if w := c.Int("width"); w > 0 {
				input.Width = &w
			}
			if h := c.Int("height"); h > 0 {
				input.Height = &h
			}

			output, err := ops.Save(db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List library assets, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Restrict to one project"},
			&cli.BoolFlag{Name: "json", Usage: "Output JSON instead of a table"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{ProjectID: c.String("project")})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(output)
			}

			rows := make([][]string, 0, len(output.Items))
			for _, a := range output.Items {
				rows = append(rows, []string{
					a.ID,
					a.ProjectName,
					strconv.Itoa(a.Variant),
					string(a.Kind),
					a.FileName,
					time.UnixMilli(a.CreatedAt).UTC().Format("2006-01-02 15:04"),
				})
			}
			fmt.Println(renderTable(
				[]string{"ID", "Project", "V", "Kind", "File Name", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete library assets by id (best-effort, per id)",
		ArgsUsage: "<id> [id...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one id is required"))
			}

			output, err := ops.BatchDelete(c.Context, db, ops.BatchDeleteInput{IDs: c.Args().Slice()})
			if output != nil {
				if jsonErr := outputJSON(output); jsonErr != nil {
					return jsonErr
				}
			}
			if err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// bundleCmd creates the bundle command.
func bundleCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "bundle",
		Usage:     "Package assets into a ZIP archive",
		ArgsUsage: "<id> [id...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Value: "bundle", Usage: "Archive base name"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "Output directory"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Bundle(db, ops.BundleInput{
				IDs:  c.Args().Slice(),
				Name: c.String("name"),
			})
			if err != nil {
				return outputError(err)
			}

			path := filepath.Join(c.String("out"), output.FileName)
			if err := os.WriteFile(path, output.Data, 0600); err != nil {
				return outputError(errors.NewInternal(err))
			}

			return outputJSON(map[string]any{
				"path":  path,
				"count": output.Count,
			})
		},
	}
}

// templatesCmd creates the templates command.
func templatesCmd() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List the packaging template catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output JSON instead of a table"},
		},
		Action: func(c *cli.Context) error {
			catalog := template.Catalog()
			if c.Bool("json") {
				return outputJSON(map[string]any{"templates": catalog})
			}

			rows := make([][]string, 0, len(catalog))
			for _, t := range catalog {
				rows = append(rows, []string{t.ID, t.Name, t.Category, t.Dimensions, t.AspectRatio})
			}
			fmt.Println(renderTable(
				[]string{"ID", "Name", "Category", "Dimensions", "Ratio"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the studio web server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			log := newLogger(true)
			defer log.Sync()

			session := newSession(db, cfg, log)
			inv := inventory.NewClient(cfg.InventoryBaseURL, log)
			var exporter web.Exporter
			if cfg.GoogleToken != "" {
				exporter = gsuite.NewClient(cfg.GoogleToken, log)
			}
			srv := web.NewServer(db, session, inv, exporter, Version, c.String("bind"), c.Int("port"), log)
			return web.Run(srv, log)
		},
	}
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.StudioError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
