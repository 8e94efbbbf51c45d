package grid_test

import (
	"fmt"

	"github.com/matzehuels/myseum/pkg/grid"
)

func ExampleFindConflicts() {
	wall, _ := grid.NewArrangement(
		grid.Item[string]{ID: "1", Position: grid.Position{X: 0, Y: 0}, Size: grid.Size{Width: 2, Height: 2}},
		grid.Item[string]{ID: "2", Position: grid.Position{X: 5, Y: 5}, Size: grid.Size{Width: 2, Height: 2}},
	)

	candidate := grid.Item[string]{ID: "1", Position: grid.Position{X: 5, Y: 5}, Size: grid.Size{Width: 2, Height: 2}}
	fmt.Println("conflicts:", grid.ItemIDs(grid.FindConflicts(candidate, wall, "1")))

	candidate.Position = grid.Position{X: 3, Y: 3}
	fmt.Println("conflicts:", grid.ItemIDs(grid.FindConflicts(candidate, wall, "1")))
	// Output:
	// conflicts: [2]
	// conflicts: []
}

func ExampleSizeFromPhysical() {
	// A 30" × 40" framed print on a wall measured in 6" cells.
	size, _ := grid.SizeFromPhysical(30, 40, 6)
	fmt.Println(size)
	// Output:
	// 5x7
}

func ExampleComputeMinimumGridSize() {
	wall, _ := grid.NewArrangement(
		grid.Item[string]{ID: "a", Position: grid.Position{X: 0, Y: 8}, Size: grid.Size{Width: 2, Height: 2}},
	)
	fit := grid.GrowTo(grid.Size{Width: 10, Height: 5}, grid.ComputeMinimumGridSize(wall))
	fmt.Println(fit)
	// Output:
	// 10x10
}
