package cli

import (
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/gallery"
	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/placement"
	"github.com/matzehuels/myseum/pkg/wall"
)

// itemCommand creates the item command.
func (c *CLI) itemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Hang, move, resize and remove artworks",
	}

	cmd.AddCommand(c.itemAddCommand())
	cmd.AddCommand(c.itemMoveCommand())
	cmd.AddCommand(c.itemResizeCommand())
	cmd.AddCommand(c.itemRemoveCommand())
	cmd.AddCommand(c.itemCheckCommand())

	return cmd
}

// boxFlags are the position and size flags shared by add and check.
type boxFlags struct {
	x, y          int
	width, height int
}

func (b *boxFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&b.x, "x", 0, "left edge in grid cells")
	cmd.Flags().IntVar(&b.y, "y", 0, "top edge in grid cells")
	cmd.Flags().IntVar(&b.width, "width", 0, "width in grid cells")
	cmd.Flags().IntVar(&b.height, "height", 0, "height in grid cells")
	cmd.MarkFlagsRequiredTogether("x", "y")
	cmd.MarkFlagsRequiredTogether("width", "height")
}

func (b *boxFlags) position(cmd *cobra.Command) *grid.Position {
	if !cmd.Flags().Changed("x") {
		return nil
	}
	return &grid.Position{X: b.x, Y: b.y}
}

func (b *boxFlags) size(cmd *cobra.Command) *grid.Size {
	if !cmd.Flags().Changed("width") {
		return nil
	}
	return &grid.Size{Width: b.width, Height: b.height}
}

func (c *CLI) itemAddCommand() *cobra.Command {
	var (
		id  string
		art wall.Artwork
		box boxFlags
	)
	cmd := &cobra.Command{
		Use:   "add <wall-id>",
		Short: "Hang an artwork on a wall",
		Long: `Hang an artwork on a wall.

The item size comes from the artwork's physical size (--width-in/--height-in)
rounded up to whole cells, or is given directly with --width/--height. With
--x/--y the item goes exactly there and is rejected if it overlaps another
item; otherwise it goes to the first free slot, scanning rows top to bottom.`,
		Example: `  myseum item add 3f2a... --title "Nighthawks" --width-in 60 --height-in 33
  myseum item add 3f2a... --title Sketch --width 3 --height 2 --x 10 --y 0`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			_, item, err := svc.AddArtwork(cmd.Context(), local(), args[0], gallery.AddRequest{
				Artwork:  art,
				ID:       id,
				Position: box.position(cmd),
				Size:     box.size(cmd),
			})
			if err != nil {
				return err
			}
			printSuccess("Hung %s at %s (%s)", titleOf(item), item.Position, item.Size)
			printDetail("id %s", item.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "item id (default random)")
	cmd.Flags().StringVar(&art.Title, "title", "", "artwork title")
	cmd.Flags().StringVar(&art.Artist, "artist", "", "artist")
	cmd.Flags().IntVar(&art.Year, "year", 0, "year")
	cmd.Flags().StringVar(&art.Frame, "frame", "", "frame description")
	cmd.Flags().StringVar(&art.ImageURL, "image-url", "", "image URL")
	cmd.Flags().Float64Var(&art.WidthIn, "width-in", 0, "framed width in inches")
	cmd.Flags().Float64Var(&art.HeightIn, "height-in", 0, "framed height in inches")
	box.register(cmd)
	return cmd
}

func (c *CLI) itemMoveCommand() *cobra.Command {
	var delta placement.Delta
	cmd := &cobra.Command{
		Use:               "move <wall-id> <item-id>",
		Short:             "Move an item by whole grid cells",
		Example:           `  myseum item move 3f2a... a1 --dx 2 --dy -1`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeIDs(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			w, err := svc.MoveItem(cmd.Context(), local(), args[0], args[1], delta)
			if err != nil {
				return explainPlacement(err)
			}
			it, _ := w.Item(args[1])
			printSuccess("Moved %s to %s", titleOf(it), it.Position)
			return nil
		},
	}
	cmd.Flags().IntVar(&delta.DX, "dx", 0, "horizontal offset in cells")
	cmd.Flags().IntVar(&delta.DY, "dy", 0, "vertical offset in cells")
	return cmd
}

func (c *CLI) itemResizeCommand() *cobra.Command {
	var (
		edge  string
		delta placement.Delta
	)
	cmd := &cobra.Command{
		Use:   "resize <wall-id> <item-id>",
		Short: "Drag an item's edge or corner by whole grid cells",
		Long: `Drag an item's edge or corner by whole grid cells.

Edges: right, bottom, left, top, bottom-right, bottom-left, top-right, top-left.
Sizes never shrink below one cell.`,
		Example:           `  myseum item resize 3f2a... a1 --edge bottom-right --dx 1 --dy 1`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeIDs(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := placement.ParseEdge(edge)
			if err != nil {
				return err
			}
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			w, err := svc.ResizeItem(cmd.Context(), local(), args[0], args[1], e, delta)
			if err != nil {
				return explainPlacement(err)
			}
			it, _ := w.Item(args[1])
			printSuccess("Resized %s to %s at %s", titleOf(it), it.Size, it.Position)
			return nil
		},
	}
	cmd.Flags().StringVar(&edge, "edge", "bottom-right", "edge or corner to drag")
	cmd.Flags().IntVar(&delta.DX, "dx", 0, "horizontal offset in cells")
	cmd.Flags().IntVar(&delta.DY, "dy", 0, "vertical offset in cells")
	return cmd
}

func (c *CLI) itemRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <wall-id> <item-id>",
		Aliases:           []string{"rm"},
		Short:             "Take an item off a wall",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeIDs(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if _, err := svc.RemoveItem(cmd.Context(), local(), args[0], args[1]); err != nil {
				return err
			}
			printSuccess("Removed %s", args[1])
			return nil
		},
	}
}

func (c *CLI) itemCheckCommand() *cobra.Command {
	var (
		id  string
		box boxFlags
	)
	cmd := &cobra.Command{
		Use:   "check <wall-id>",
		Short: "Check whether a box fits without changing the wall",
		Long: `Check whether a box fits without changing the wall.

With --id naming an item already on the wall, the box is checked as a new
position for that item.`,
		Example:           `  myseum item check 3f2a... --x 4 --y 0 --width 3 --height 2`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			item := wall.Item{ID: id, Position: grid.Position{X: box.x, Y: box.y}, Size: grid.Size{Width: box.width, Height: box.height}}
			fb, err := svc.Check(cmd.Context(), local(), args[0], item)
			if err != nil {
				return err
			}
			if fb.State == placement.Valid {
				printSuccess("%s at %s fits", item.Size, item.Position)
				if fb.GrowsTo > 0 {
					printDetail("the wall would grow to height %d", fb.GrowsTo)
				}
				return nil
			}
			printError("%s at %s does not fit", item.Size, item.Position)
			return explainPlacement(fb.Err())
		},
	}
	cmd.Flags().StringVar(&id, "id", "candidate", "item id")
	box.register(cmd)
	_ = cmd.MarkFlagRequired("width") //nolint:errcheck
	_ = cmd.MarkFlagRequired("x")     //nolint:errcheck
	return cmd
}

// explainPlacement prints the blocking items of a placement error and
// returns err unchanged.
func explainPlacement(err error) error {
	var pe *apperrors.PlacementError
	if !apperrors.As(err, &pe) {
		return err
	}
	if pe.OutOfBounds {
		printDetail("out of bounds")
	}
	if len(pe.ConflictIDs) > 0 {
		printDetail("blocked by %s", strings.Join(pe.ConflictIDs, ", "))
	}
	return err
}

func titleOf(it wall.Item) string {
	if it.Payload.Title != "" {
		return it.Payload.Title
	}
	return it.ID
}
