package context

import "testing"

func TestApplyLogicalAreaDirectionChangeThenAreaChange(t *testing.T) {
	pm := &PageMode{Enabled: true}

	// ESC T: direction changes, previous is left at its old value so the
	// jump from default (TopLeft->Right) to TopRight->Bottom is visible.
	pm.Direction = DirTopRightBottom
	rot, _, _ := pm.ApplyLogicalArea()
	if rot != Rotation270 {
		t.Fatalf("direction-change rotation = %v, want Rotation270", rot)
	}

	// ESC W: area changes; driver resets previous=current first so this
	// call reports zero rotation but still recomputes geometry.
	pm.LogicalArea = Rect{X: 0, Y: 0, W: 100, H: 200}
	pm.PreviousDirection = pm.Direction
	rot, w, h := pm.ApplyLogicalArea()
	if rot != Rotation0 {
		t.Fatalf("area-change rotation = %v, want Rotation0", rot)
	}
	if w != 200 || h != 100 {
		t.Fatalf("render area = %dx%d, want 200x100 (swapped)", w, h)
	}
}

func TestApplyLogicalAreaRotationGroupSumsToFullTurn(t *testing.T) {
	sequence := []Direction{
		DirTopLeftRight,
		DirBottomLeftTop,
		DirBottomRightLeft,
		DirTopRightBottom,
		DirTopLeftRight,
	}
	pm := &PageMode{Direction: sequence[0], PreviousDirection: sequence[0]}
	total := 0
	for _, d := range sequence[1:] {
		pm.Direction = d
		rot, _, _ := pm.ApplyLogicalArea()
		total += int(rot) * 90
		pm.PreviousDirection = d
	}
	if total%360 != 0 {
		t.Fatalf("rotation deltas summed to %d, want a multiple of 360", total)
	}
}

func TestContextResetPreservesDiscGraphicsOnly(t *testing.T) {
	ctx := NewContext(576, 203)
	ctx.Graphics.StoredGraphics[ImageRef{KC1: '1', KC2: 'A', Storage: StorageDisc}] = ctx.Graphics.StoredGraphics[ImageRef{}]
	ctx.Graphics.StoredGraphics[ImageRef{KC1: '2', KC2: 'B', Storage: StorageRAM}] = ctx.Graphics.StoredGraphics[ImageRef{}]
	ctx.Text.Bold = true
	ctx.Graphics.CursorX = 123

	ctx.Reset()

	if ctx.Text.Bold {
		t.Fatalf("Reset did not clear text style")
	}
	if _, ok := ctx.Graphics.StoredGraphics[ImageRef{KC1: '1', KC2: 'A', Storage: StorageDisc}]; !ok {
		t.Fatalf("Reset dropped a disc-stored graphic")
	}
	if _, ok := ctx.Graphics.StoredGraphics[ImageRef{KC1: '2', KC2: 'B', Storage: StorageRAM}]; ok {
		t.Fatalf("Reset kept a RAM-stored graphic")
	}
}

func TestCalculateJustification(t *testing.T) {
	ctx := NewContext(300, 203)
	ctx.Text.Justify = JustifyCenter
	if got := ctx.CalculateJustification(100); got != 100 {
		t.Fatalf("center offset = %d, want 100", got)
	}
	ctx.Text.Justify = JustifyRight
	if got := ctx.CalculateJustification(100); got != 200 {
		t.Fatalf("right offset = %d, want 200", got)
	}
	ctx.Text.Justify = JustifyLeft
	if got := ctx.CalculateJustification(100); got != 0 {
		t.Fatalf("left offset = %d, want 0", got)
	}
}

func TestOffsetXSaturatesAtBase(t *testing.T) {
	ctx := NewContext(300, 203)
	ctx.Graphics.CursorX = 5
	ctx.OffsetX(-50)
	if ctx.GetX() != ctx.Graphics.RenderArea.X {
		t.Fatalf("OffsetX underflowed: got %d, want base %d", ctx.GetX(), ctx.Graphics.RenderArea.X)
	}
}
