// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/janderssonse/iconpick/internal/catalog"
	"github.com/janderssonse/iconpick/internal/config"
	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/grid"
	"github.com/janderssonse/iconpick/internal/iconload"
	"github.com/janderssonse/iconpick/internal/iconpack"
	"github.com/janderssonse/iconpick/internal/logging"
	"github.com/janderssonse/iconpick/internal/overrides"
	"github.com/janderssonse/iconpick/internal/segmented"
	"github.com/janderssonse/iconpick/internal/tui"
	"github.com/janderssonse/iconpick/internal/tui/models"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

func (app *CLI) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "pick",
			Usage:  "open the icon picker (default)",
			Flags:  pickFlags(false),
			Action: app.runPick,
		},
		{
			Name:  "list",
			Usage: "print the matching and all sections without the picker",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "icon-pack", Aliases: []string{"k"}, Usage: "icon pack to list", Required: true},
				&cli.StringFlag{Name: "app-package", Aliases: []string{"p"}, Usage: "package identifier for the matching section"},
				&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "keep icons whose name contains this text"},
			},
			Action: app.runList,
		},
		{
			Name:   "packs",
			Usage:  "list the icon packs in the packs directory",
			Action: app.runPacks,
		},
		{
			Name:   "overrides",
			Usage:  "list committed icon overrides",
			Action: app.runOverrides,
			Commands: []*cli.Command{
				{
					Name:      "clear",
					Usage:     "remove the override for an application package",
					ArgsUsage: "<app-package>",
					Action:    app.runOverridesClear,
				},
			},
		},
		{
			Name:  "config",
			Usage: "show or create the configuration file",
			Commands: []*cli.Command{
				{
					Name:   "show",
					Usage:  "print the effective configuration",
					Action: app.runConfigShow,
				},
				{
					Name:  "init",
					Usage: "write the default configuration file",
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
					},
					Action: app.runConfigInit,
				},
			},
		},
	}
}

// runPick validates the launch parameters and shows the picker.
func (app *CLI) runPick(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return domain.NewExitError(ExitUsageError,
			fmt.Sprintf("unexpected argument %q (see 'iconpick --help')", cmd.Args().First()), nil)
	}

	sel := domain.SelectionContext{
		AppPackage: cmd.String("app-package"),
		AppLabel:   cmd.String("app-label"),
		IconPack:   cmd.String("icon-pack"),
	}

	if sel.IconPack == "" && sel.AppPackage != "" && app.interactive() {
		packID, err := app.choosePack()
		if err != nil {
			return err
		}

		sel.IconPack = packID
	}

	if err := sel.Validate(); err != nil {
		return domain.NewExitError(ExitUsageError, domain.FormatError(err, "", app.verbose), err)
	}

	if !app.interactive() {
		return domain.NewExitError(ExitGeneralError, "the picker needs a terminal; use 'iconpick list' in scripts", tui.ErrNoTerminal)
	}

	unlock, err := app.lockSession()
	if err != nil {
		return err
	}
	defer unlock()

	pack, err := app.openPack(sel.IconPack)
	if err != nil {
		return err
	}
	defer pack.Close()

	// Logs written to stderr would corrupt the picker screen.
	logger := app.logger
	if app.logFile == "" {
		logger = logging.Discard()
	}

	scanner := catalog.NewScanner(logger)
	loader := iconload.New(pack, iconload.WithCacheSize(app.cfg.CacheSize), iconload.WithLogger(logger))
	store := overrides.NewStore(app.cfg.DataDir, logger)

	scan := func(ctx context.Context) (*catalog.Catalog, error) {
		return scanner.Scan(ctx, pack, sel.AppPackage)
	}

	picker := models.NewPicker(ctx, scan, loader, store, models.Options{
		Selection: sel,
		Columns:   app.cfg.Columns,
		Layout: models.Layout{
			CellWidth: app.cfg.IconSize,
			Spacing:   app.cfg.ItemSpacing,
			Margin:    app.cfg.Margin,
		},
		Theme:   app.cfg.Theme,
		Preview: !cmd.Bool("no-preview"),
	})

	result, err := app.runPicker(ctx, picker)
	if err != nil {
		return err
	}

	return app.reportPick(sel, result)
}

func (app *CLI) reportPick(sel domain.SelectionContext, result grid.Activation) error {
	committed := result.Outcome == grid.OutcomeCommitted

	app.logger.Info("picker closed", "package", sel.AppPackage, "committed", committed, "icon", result.Name)

	switch {
	case app.json:
		data := map[string]any{"committed": committed, "package": sel.AppPackage, "icon_pack": sel.IconPack}
		if committed {
			data["icon"] = result.Name.String()
		}

		app.out.JSONResult("success", data)
	case app.plain:
		if committed {
			app.out.PlainList([]string{"icon:" + result.Name.String()})
		}
	case committed:
		app.out.Successf("%s now uses %s from %s", sel.AppLabel, result.Name, sel.IconPack)
	default:
		app.out.Progressf("no icon chosen for %s", sel.AppLabel)
	}

	return nil
}

func (app *CLI) choosePack() (string, error) {
	packs, err := iconpack.Discover(app.cfg.PacksDir)
	if err != nil {
		return "", domain.NewExitError(ExitSystemError, "failed to read packs directory", err)
	}

	if len(packs) == 0 {
		return "", domain.NewExitError(ExitNotFoundError,
			fmt.Sprintf("no icon packs in %s", app.cfg.PacksDir), domain.ErrPackNotFound)
	}

	packID, err := app.prompt(packs)
	if err != nil {
		return "", domain.NewExitError(ExitInterruptError, "pack selection cancelled", err)
	}

	return packID, nil
}

func (app *CLI) openPack(id string) (*iconpack.Pack, error) {
	loc, err := iconpack.Find(app.cfg.PacksDir, id)
	if err != nil {
		return nil, domain.NewExitError(ExitNotFoundError, domain.FormatError(err, id, app.verbose), err)
	}

	pack, err := iconpack.Open(loc.Path, iconpack.Options{
		MaxBytes:  app.cfg.MaxIconBytes,
		MaxPixels: app.cfg.MaxIconPixels,
		Logger:    app.logger,
	})
	if err != nil {
		return nil, domain.NewExitError(ExitSystemError, domain.FormatError(err, id, app.verbose), err)
	}

	return pack, nil
}

// runList prints the segmented list for a pack and query.
func (app *CLI) runList(ctx context.Context, cmd *cli.Command) error {
	packID := cmd.String("icon-pack")
	appPackage := cmd.String("app-package")
	query := cmd.String("query")

	pack, err := app.openPack(packID)
	if err != nil {
		return err
	}
	defer pack.Close()

	app.out.Progressf("scanning %s", packID)

	cat, err := catalog.NewScanner(app.logger).Scan(ctx, pack, appPackage)
	if err != nil {
		return domain.NewExitError(ExitSystemError, domain.FormatError(err, packID, app.verbose), err)
	}

	list := segmented.Build(cat.All(), cat.Matching(), query)
	vm := grid.New(list, app.cfg.Columns, nil, nil, domain.SelectionContext{AppPackage: appPackage, IconPack: packID})

	switch {
	case app.json:
		slots := make([]map[string]any, 0, vm.Len())
		for pos := range vm.Len() {
			slots = append(slots, map[string]any{
				"position": pos,
				"kind":     vm.KindAt(pos).String(),
				"span":     vm.SpanAt(pos),
				"name":     vm.NameAt(pos).String(),
			})
		}

		app.out.JSONResult("success", map[string]any{
			"icon_pack": packID,
			"query":     query,
			"matching":  names(list.Names(domain.SectionMatching)),
			"all":       names(list.Names(domain.SectionAll)),
			"slots":     slots,
		})
	case app.plain:
		lines := make([]string, 0, vm.Len())
		for pos := range vm.Len() {
			lines = append(lines, vm.KindAt(pos).String()+":"+vm.NameAt(pos).String())
		}

		app.out.PlainList(lines)
	default:
		app.printSections(list)
	}

	return nil
}

func (app *CLI) printSections(list *segmented.List) {
	if list.IsEmpty() && list.Query() != "" {
		app.out.Warningf("no icons match %q", list.Query())

		return
	}

	for _, section := range []domain.Section{domain.SectionMatching, domain.SectionAll} {
		if !list.HasSection(section) {
			continue
		}

		items := list.Names(section)

		_, _ = fmt.Fprintln(app.out.Stdout, app.out.Header(fmt.Sprintf("%s icons (%d)", section, len(items))))
		app.out.PlainList(names(items))
	}
}

// runPacks lists discovered icon packs.
func (app *CLI) runPacks(_ context.Context, _ *cli.Command) error {
	packs, err := iconpack.Discover(app.cfg.PacksDir)
	if err != nil {
		return domain.NewExitError(ExitSystemError, "failed to read packs directory", err)
	}

	switch {
	case app.json:
		items := make([]map[string]any, 0, len(packs))
		for _, p := range packs {
			items = append(items, map[string]any{"id": p.ID, "path": p.Path, "archive": p.Archive})
		}

		app.out.JSONResult("success", map[string]any{"packs_dir": app.cfg.PacksDir, "packs": items})
	case app.plain:
		lines := make([]string, 0, len(packs))
		for _, p := range packs {
			lines = append(lines, p.ID+":"+p.Path)
		}

		app.out.PlainList(lines)
	case len(packs) == 0:
		app.out.Warningf("no icon packs in %s", app.cfg.PacksDir)
	default:
		rows := [][]string{{app.out.Header("PACK"), app.out.Header("KIND"), app.out.Header("PATH")}}
		for _, p := range packs {
			rows = append(rows, []string{p.ID, packKind(p), p.Path})
		}

		app.out.Table(rows)
	}

	return nil
}

func packKind(p iconpack.Location) string {
	if p.Archive {
		return "archive"
	}

	return "directory"
}

// runOverrides lists committed overrides.
func (app *CLI) runOverrides(_ context.Context, _ *cli.Command) error {
	store := overrides.NewStore(app.cfg.DataDir, app.logger)

	list, err := store.List()
	if err != nil {
		return domain.NewExitError(ExitSystemError, "failed to read overrides", err)
	}

	switch {
	case app.json:
		items := make([]map[string]any, 0, len(list))
		for _, o := range list {
			items = append(items, map[string]any{
				"package":    o.Package,
				"label":      o.Label,
				"icon_pack":  o.IconPack,
				"icon":       o.Icon,
				"file":       store.IconPath(o),
				"updated_at": o.UpdatedAt.Format(time.RFC3339),
			})
		}

		app.out.JSONResult("success", map[string]any{"overrides": items})
	case app.plain:
		lines := make([]string, 0, len(list))
		for _, o := range list {
			lines = append(lines, o.Package+":"+o.IconPack+"/"+o.Icon)
		}

		app.out.PlainList(lines)
	case len(list) == 0:
		app.out.Successf("no overrides")
	default:
		rows := [][]string{{app.out.Header("PACKAGE"), app.out.Header("LABEL"), app.out.Header("ICON"), app.out.Header("UPDATED")}}
		for _, o := range list {
			rows = append(rows, []string{o.Package, o.Label, o.IconPack + "/" + o.Icon, o.UpdatedAt.Format(time.DateTime)})
		}

		app.out.Table(rows)
	}

	return nil
}

// runOverridesClear removes one override.
func (app *CLI) runOverridesClear(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return domain.NewExitError(ExitUsageError, "usage: iconpick overrides clear <app-package>", nil)
	}

	pkg := cmd.Args().First()

	if err := overrides.NewStore(app.cfg.DataDir, app.logger).Remove(ctx, pkg); err != nil {
		if errors.Is(err, overrides.ErrNoOverride) {
			return domain.NewExitError(ExitNotFoundError, fmt.Sprintf("no override for %s", pkg), err)
		}

		return domain.NewExitError(ExitSystemError, "failed to remove override", err)
	}

	if app.json {
		app.out.JSONResult("success", map[string]any{"removed": pkg})
	} else {
		app.out.Successf("removed override for %s", pkg)
	}

	return nil
}

// runConfigShow prints the effective configuration as TOML.
func (app *CLI) runConfigShow(_ context.Context, _ *cli.Command) error {
	if app.json {
		app.out.JSONResult("success", map[string]any{
			"path":            app.configPath,
			"columns":         app.cfg.Columns,
			"item_spacing":    app.cfg.ItemSpacing,
			"icon_size":       app.cfg.IconSize,
			"margin":          app.cfg.Margin,
			"packs_dir":       app.cfg.PacksDir,
			"data_dir":        app.cfg.DataDir,
			"cache_size":      app.cfg.CacheSize,
			"max_icon_bytes":  app.cfg.MaxIconBytes,
			"max_icon_pixels": app.cfg.MaxIconPixels,
			"theme":           app.cfg.Theme,
		})

		return nil
	}

	data, err := toml.Marshal(app.cfg)
	if err != nil {
		return domain.NewExitError(ExitGeneralError, "failed to encode configuration", err)
	}

	_, _ = app.out.Stdout.Write(data)

	return nil
}

// runConfigInit writes the default configuration file.
func (app *CLI) runConfigInit(_ context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(app.configPath); err == nil && !cmd.Bool("force") {
		return domain.NewExitError(ExitConfigError,
			fmt.Sprintf("%s already exists (use --force to overwrite)", app.configPath), nil)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.NewExitError(ExitSystemError, "failed to check config file", err)
	}

	if err := config.Save(app.configPath, config.Default()); err != nil {
		return domain.NewExitError(ExitSystemError, "failed to write configuration", err)
	}

	app.out.Successf("wrote %s", app.configPath)

	return nil
}

func names(items []domain.IconName) []string {
	result := make([]string, 0, len(items))
	for _, n := range items {
		result = append(result, n.String())
	}

	return result
}
