package context

// Direction is a page-mode print direction. The iota values are not
// arbitrary: they are the rotation-group index used directly by
// ApplyLogicalArea's rotation arithmetic, so reordering these constants
// changes printer behavior, not just naming.
type Direction int

const (
	DirTopLeftRight Direction = iota
	DirBottomLeftTop
	DirBottomRightLeft
	DirTopRightBottom
)

// needsSwap reports whether this direction prints sideways relative to the
// default, meaning the logical area's width/height swap when translated
// into the render area. The two 90-degree directions (index 1 and 3) swap;
// the two on-axis directions (index 0 and 2) do not.
func (d Direction) needsSwap() bool {
	return d%2 == 1
}

// Rotation is the page-area rotation delta reported to an output adapter's
// page_area_changed callback.
type Rotation int

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

func rotationFromDegrees(deg int) Rotation {
	switch deg {
	case 90:
		return Rotation90
	case 180:
		return Rotation180
	case 270:
		return Rotation270
	default:
		return Rotation0
	}
}

// PageMode holds the page-mode subsystem's state: the logical area as
// programmed by ESC W, the direction as programmed by ESC T, and the two
// derived rectangles apply_logical_area computes from them.
type PageMode struct {
	Enabled bool

	Direction         Direction
	PreviousDirection Direction

	// LogicalArea is the rectangle as programmed, in the coordinate frame
	// of Direction at the time it was set.
	LogicalArea Rect

	// RenderArea is LogicalArea translated into device pixels for the
	// current Direction — width/height swapped whenever the current
	// Direction needsSwap().
	RenderArea Rect

	// PageArea is the growing envelope across every area/direction change
	// since BeginPageMode, used to size the final page-mode buffer.
	PageArea Rect

	// LastRotation is the rotation ApplyLogicalArea most recently computed,
	// read back by the renderer after ApplyContext runs rather than
	// recomputing (a second call would stage a different, stale delta).
	LastRotation Rotation
}

// ApplyLogicalArea recomputes RenderArea from LogicalArea and Direction,
// grows PageArea to contain it, and returns the rotation implied by the
// change from PreviousDirection to Direction.
//
// Callers control PreviousDirection: a direction change (ESC T) leaves it
// untouched before calling, so the rotation here reflects the jump from
// whatever direction preceded it; an area change (ESC W) sets
// PreviousDirection = Direction immediately before calling, so the
// rotation from an area-only change is always zero — only the geometry is
// recomputed.
func (pm *PageMode) ApplyLogicalArea() (rotation Rotation, width, height uint32) {
	prevIdx := int(pm.PreviousDirection)
	curIdx := int(pm.Direction)
	deg := ((curIdx-prevIdx)%4 + 4) % 4 * 90
	rotation = rotationFromDegrees(deg)
	pm.LastRotation = rotation

	if pm.Direction.needsSwap() != pm.PreviousDirection.needsSwap() {
		pm.PageArea.W, pm.PageArea.H = pm.PageArea.H, pm.PageArea.W
	}

	if pm.Direction.needsSwap() {
		width, height = pm.LogicalArea.H, pm.LogicalArea.W
	} else {
		width, height = pm.LogicalArea.W, pm.LogicalArea.H
	}

	pm.RenderArea = Rect{X: pm.PageArea.X, Y: pm.PageArea.Y, W: width, H: height}
	if width > pm.PageArea.W {
		pm.PageArea.W = width
	}
	if height > pm.PageArea.H {
		pm.PageArea.H = height
	}
	return rotation, width, height
}

// Reset restores page mode to its initial (disabled, zeroed) state, called
// by Context.Reset.
func (pm *PageMode) Reset() {
	*pm = PageMode{}
}
