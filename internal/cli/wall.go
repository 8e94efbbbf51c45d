package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/myseum/pkg/gallery"
	"github.com/matzehuels/myseum/pkg/wall"
)

// wallCommand creates the wall management command.
func (c *CLI) wallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wall",
		Short: "Create and manage gallery walls",
	}

	cmd.AddCommand(c.wallNewCommand())
	cmd.AddCommand(c.wallListCommand())
	cmd.AddCommand(c.wallShowCommand())
	cmd.AddCommand(c.wallShareCommand())
	cmd.AddCommand(c.wallFitCommand())
	cmd.AddCommand(c.wallDeleteCommand())
	cmd.AddCommand(c.wallImportCommand())
	cmd.AddCommand(c.wallExportCommand())

	return cmd
}

func (c *CLI) wallNewCommand() *cobra.Command {
	var req gallery.CreateRequest
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty wall",
		Long: `Create an empty wall.

The size is given in grid cells with --width/--height, or in inches with
--width-in/--height-in. Without either, the configured default size is used.`,
		Example: `  myseum wall new Hallway --width 40 --height 20
  myseum wall new Stairwell --width-in 96 --height-in 120 --unit 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			physical := req.WidthIn > 0 || req.HeightIn > 0
			if !physical && req.Width == 0 && req.Height == 0 {
				req.Width, req.Height = c.cfg.Grid.DefaultWidth, c.cfg.Grid.DefaultHeight
			}
			if req.Unit == 0 {
				req.Unit = c.cfg.Grid.UnitInches
			}

			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			w, err := svc.CreateWall(cmd.Context(), local(), req)
			if err != nil {
				return err
			}
			printSuccess("Created wall %s (%s)", w.Name, w.Size())
			printDetail("id %s", w.ID)
			printNextStep("Hang an artwork", fmt.Sprintf("myseum item add %s --title ... --width-in ... --height-in ...", w.ID))
			return nil
		},
	}
	cmd.Flags().IntVar(&req.Width, "width", 0, "width in grid cells")
	cmd.Flags().IntVar(&req.Height, "height", 0, "height in grid cells")
	cmd.Flags().Float64Var(&req.WidthIn, "width-in", 0, "width in inches")
	cmd.Flags().Float64Var(&req.HeightIn, "height-in", 0, "height in inches")
	cmd.Flags().Float64Var(&req.Unit, "unit", 0, "inches per grid cell (default from config)")
	cmd.Flags().BoolVar(&req.Public, "public", false, "share the wall publicly")
	cmd.MarkFlagsMutuallyExclusive("width", "width-in")
	cmd.MarkFlagsMutuallyExclusive("height", "height-in")
	return cmd
}

func (c *CLI) wallListCommand() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List walls",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			walls, err := svc.ListWalls(cmd.Context(), local(), owner)
			if err != nil {
				return err
			}
			if len(walls) == 0 {
				printInfo("No walls yet")
				printNextStep("Create one", "myseum wall new <name>")
				return nil
			}
			printSummaries(walls)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "list another user's public walls")
	return cmd
}

func (c *CLI) wallShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <wall-id>",
		Short:             "Print a wall and its items",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			w, err := svc.GetWall(cmd.Context(), local(), args[0])
			if err != nil {
				return err
			}
			printWall(w)
			return nil
		},
	}
}

func (c *CLI) wallShareCommand() *cobra.Command {
	var private bool
	cmd := &cobra.Command{
		Use:               "share <wall-id>",
		Short:             "Share a wall publicly, or make it private again",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			public := !private
			w, err := svc.UpdateWall(cmd.Context(), local(), args[0], gallery.UpdateRequest{Public: &public})
			if err != nil {
				return err
			}
			if w.Public {
				printSuccess("Wall %s is public", w.Name)
			} else {
				printSuccess("Wall %s is private", w.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&private, "private", false, "make the wall private")
	return cmd
}

func (c *CLI) wallFitCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "fit <wall-id>",
		Short:             "Shrink or grow the wall height to its content",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			w, err := svc.Fit(cmd.Context(), local(), args[0])
			if err != nil {
				return err
			}
			printSuccess("Wall %s is now %s", w.Name, w.Size())
			return nil
		},
	}
}

func (c *CLI) wallDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <wall-id>",
		Aliases:           []string{"rm"},
		Short:             "Delete a wall",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.DeleteWall(cmd.Context(), local(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted wall %s", args[0])
			return nil
		},
	}
}

func (c *CLI) wallImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a wall from a JSON or YAML document",
		Long: `Import a wall from a JSON or YAML document.

The format follows the file extension (.yaml or .yml for YAML, JSON
otherwise). A wall with the id of one of your walls replaces it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			timed := startTimer(loggerFromContext(cmd.Context()))
			w, err := svc.Import(cmd.Context(), local(), f, wall.FormatFromPath(args[0]))
			if err != nil {
				return err
			}
			timed.done("wall imported", "wall", w.ID, "items", len(w.Items))
			printSuccess("Imported wall %s (%s)", w.Name, w.ID)
			return nil
		},
	}
}

func (c *CLI) wallExportCommand() *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export <wall-id>",
		Short: "Export a wall as JSON or YAML",
		Example: `  myseum wall export 3f2a... -o hallway.yaml
  myseum wall export 3f2a... --format yaml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := wall.FormatJSON
			switch {
			case format != "":
				var err error
				if f, err = wall.ParseFormat(format); err != nil {
					return err
				}
			case output != "":
				f = wall.FormatFromPath(output)
			}

			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if output == "" {
				return svc.Export(cmd.Context(), local(), args[0], stdout, f)
			}
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := svc.Export(cmd.Context(), local(), args[0], out, f); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			printSuccess("Exported wall to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from file extension)")
	return cmd
}
