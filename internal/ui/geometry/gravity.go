package geometry

// Gravity names the nine anchor zones of a container, row-major from
// the top-left. A floating child keeps its gravity when the container
// is resized: corner zones pin the matching corner, edge zones pin the
// matching edge and stay centered on the other axis, and the center
// zone stays fully centered.
type Gravity int

const (
	GravityTopLeft Gravity = iota
	GravityTop
	GravityTopRight
	GravityLeft
	GravityCenter
	GravityRight
	GravityBottomLeft
	GravityBottom
	GravityBottomRight
)

var gravityNames = map[Gravity]string{
	GravityTopLeft:     "top-left",
	GravityTop:         "top",
	GravityTopRight:    "top-right",
	GravityLeft:        "left",
	GravityCenter:      "center",
	GravityRight:       "right",
	GravityBottomLeft:  "bottom-left",
	GravityBottom:      "bottom",
	GravityBottomRight: "bottom-right",
}

func (g Gravity) String() string {
	if name, ok := gravityNames[g]; ok {
		return name
	}
	return "unknown"
}

// ClassifyGravity partitions the container into equal thirds and
// returns the zone holding r's center. Centers outside the container
// are clamped onto its edge first, so every rect classifies to a zone.
// A center exactly on a third boundary belongs to the upper/left zone.
func ClassifyGravity(r Rect, container Size) Gravity {
	c := r.Center()

	if c.X < 0 {
		c.X = 0
	} else if c.X > container.Width {
		c.X = container.Width
	}
	if c.Y < 0 {
		c.Y = 0
	} else if c.Y > container.Height {
		c.Y = container.Height
	}

	// 3*c <= w avoids dividing the container into inexact thirds.
	col := 2
	if 3*c.X <= container.Width {
		col = 0
	} else if 3*c.X <= 2*container.Width {
		col = 1
	}
	row := 2
	if 3*c.Y <= container.Height {
		row = 0
	} else if 3*c.Y <= 2*container.Height {
		row = 1
	}

	return Gravity(3*row + col)
}

// Reanchor moves r so that its gravity anchor coincides with ideal's,
// then clamps the result fully inside host. The rect's size is kept.
func Reanchor(r Rect, g Gravity, ideal Rect, host Rect) Rect {
	ic := ideal.Center()
	out := r

	switch g {
	case GravityTopLeft:
		out.X, out.Y = ideal.X, ideal.Y
	case GravityTop:
		out.X, out.Y = ic.X-out.Width/2, ideal.Y
	case GravityTopRight:
		out.X, out.Y = ideal.Right()-out.Width, ideal.Y
	case GravityLeft:
		out.X, out.Y = ideal.X, ic.Y-out.Height/2
	case GravityCenter:
		out.X, out.Y = ic.X-out.Width/2, ic.Y-out.Height/2
	case GravityRight:
		out.X, out.Y = ideal.Right()-out.Width, ic.Y-out.Height/2
	case GravityBottomLeft:
		out.X, out.Y = ideal.X, ideal.Bottom()-out.Height
	case GravityBottom:
		out.X, out.Y = ic.X-out.Width/2, ideal.Bottom()-out.Height
	case GravityBottomRight:
		out.X, out.Y = ideal.Right()-out.Width, ideal.Bottom()-out.Height
	}

	return out.ClampInto(host)
}
