// Package interaction implements the draw, drag, and resize gesture state
// machines. Each controller owns a small explicit state machine; pointer
// positions come in as client coordinates and all geometry is computed
// through the viewport, then committed into the annotation store.
package interaction

// Handle identifies one of the eight resize grips around a selected box.
// Corner handles own two edges of the rectangle, edge handles own one.
type Handle int

const (
	HandleNone Handle = iota
	HandleTL
	HandleT
	HandleTR
	HandleR
	HandleBR
	HandleB
	HandleBL
	HandleL
)

func (h Handle) String() string {
	switch h {
	case HandleTL:
		return "tl"
	case HandleT:
		return "t"
	case HandleTR:
		return "tr"
	case HandleR:
		return "r"
	case HandleBR:
		return "br"
	case HandleB:
		return "b"
	case HandleBL:
		return "bl"
	case HandleL:
		return "l"
	default:
		return "none"
	}
}

// ParseHandle maps the wire names {tl,tr,bl,br,t,r,b,l} to a Handle.
func ParseHandle(s string) (Handle, bool) {
	switch s {
	case "tl":
		return HandleTL, true
	case "t":
		return HandleT, true
	case "tr":
		return HandleTR, true
	case "r":
		return HandleR, true
	case "br":
		return HandleBR, true
	case "b":
		return HandleB, true
	case "bl":
		return HandleBL, true
	case "l":
		return HandleL, true
	default:
		return HandleNone, false
	}
}

// movesLeft reports whether the handle owns the rectangle's left edge.
func (h Handle) movesLeft() bool {
	return h == HandleTL || h == HandleL || h == HandleBL
}

func (h Handle) movesRight() bool {
	return h == HandleTR || h == HandleR || h == HandleBR
}

func (h Handle) movesTop() bool {
	return h == HandleTL || h == HandleT || h == HandleTR
}

func (h Handle) movesBottom() bool {
	return h == HandleBL || h == HandleB || h == HandleBR
}
