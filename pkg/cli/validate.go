package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/secmon-lab/trialdash/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a catalog file",
		Flags: catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := catalogCfg.Load()
			if err != nil {
				return err
			}

			for _, page := range catalog.Pages {
				fmt.Fprintf(os.Stdout, "%s (%s)\n", page.ID, page.Title)
				for _, panel := range page.Panels {
					kind := string(panel.Kind)
					if panel.Chart != "" {
						kind += "/" + string(panel.Chart)
					}
					fmt.Fprintf(os.Stdout, "  %-28s %-18s %s\n", panel.ID, kind, panel.Endpoint)
				}
			}
			return nil
		},
	}
}
