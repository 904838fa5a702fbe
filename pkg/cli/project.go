package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/cli/config"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"github.com/secmon-lab/trialdash/pkg/repository"
	"github.com/secmon-lab/trialdash/pkg/service/render"
	"github.com/secmon-lab/trialdash/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdProject() *cli.Command {
	var (
		analyticsCfg config.Analytics
		dashboardCfg config.Dashboard
		catalogCfg   config.Catalog
		panelID      string
		svgPath      string
	)

	flags := joinFlags(
		analyticsCfg.Flags(),
		dashboardCfg.Flags(),
		catalogCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "panel",
				Aliases:     []string{"p"},
				Usage:       "Panel ID to load",
				Required:    true,
				Destination: &panelID,
			},
			&cli.StringFlag{
				Name:        "svg",
				Usage:       "Also write the rendered chart to this file",
				Destination: &svgPath,
			},
		},
	)

	return &cli.Command{
		Name:  "project",
		Usage: "Load one panel and print its view as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := catalogCfg.Load()
			if err != nil {
				return err
			}
			client, err := analyticsCfg.Configure()
			if err != nil {
				return err
			}
			dashCfg, err := dashboardCfg.Configure()
			if err != nil {
				return err
			}

			renderer := render.New()
			dashboard := usecase.NewDashboard(catalog, client, repository.NewMemory(), renderer, dashCfg)

			view, err := dashboard.LoadPanel(ctx, types.PanelID(panelID))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(view); err != nil {
				return goerr.Wrap(err, "failed to write panel view")
			}

			if svgPath != "" {
				f, err := os.Create(svgPath)
				if err != nil {
					return goerr.Wrap(err, "failed to create SVG file", goerr.V("path", svgPath))
				}
				defer f.Close()

				if err := renderer.Render(f, view); err != nil {
					return goerr.Wrap(err, "failed to render panel", goerr.V("panel", panelID))
				}
				ctxlog.From(ctx).Info("Chart written", slog.String("path", svgPath))
			}

			return nil
		},
	}
}
