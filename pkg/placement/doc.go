// Package placement implements the interactive placement engine for gallery
// walls.
//
// An [Engine] owns one arrangement of items on a grid and is the only way to
// produce a new arrangement. Changes happen either through a direct mutation
// ([Engine.AddItem], [Engine.PlaceItem], [Engine.RemoveItem]) or through a
// move or resize interaction driven by pointer or keyboard input:
//
//	eng.BeginMove("a")                          // Idle → Proposing
//	fb, _ := eng.UpdateCandidate(Delta{DX: 3})  // → Valid or Invalid
//	if fb.State == placement.Valid {
//	    arr, _ := eng.Commit()                  // → Idle, new arrangement
//	} else {
//	    eng.Cancel()                            // → Idle, unchanged
//	}
//
// # States
//
// Only one interaction is active at a time. Starting a second one fails with
// CONFLICTING_INTERACTION, as do direct mutations while an interaction is
// active. Deltas are cumulative: each [Engine.UpdateCandidate] call carries
// the total offset since the interaction began, already snapped to whole
// grid units.
//
// # Bounds
//
// The grid width is a hard bound and any candidate crossing it, or the
// origin, is Invalid. The height is soft: a candidate extending below the
// grid stays Valid, [Feedback.GrowsTo] reports the height it needs, and a
// commit grows the grid to fit.
//
// # Errors
//
// All errors are returned synchronously from the operation that detects
// them and carry codes from the errors package. Failed commits and adds
// return an [errors.PlacementError] listing the conflicting item ids and a
// bounds flag, and leave the arrangement unchanged.
//
// [errors.PlacementError]: github.com/matzehuels/myseum/pkg/errors.PlacementError
package placement
