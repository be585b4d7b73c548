package drawlist

import (
	"github.com/chewxy/math32"
	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/core"
)

// UV used for untextured geometry; the white texture is 1x1 so any UV works.
var whiteUV = [2]float32{0.5, 0.5}

// AA fringe width in pixels, split evenly around the stroke edge.
const fringe = 1.0

func putQuad(v []Vertex, i []uint32, base uint32, x0, y0, x1, y1, u0, v0, u1, v1 float32, tl, tr, br, bl uint32) {
	v[0] = Vertex{Pos: [2]float32{x0, y0}, UV: [2]float32{u0, v0}, Color: tl}
	v[1] = Vertex{Pos: [2]float32{x1, y0}, UV: [2]float32{u1, v0}, Color: tr}
	v[2] = Vertex{Pos: [2]float32{x1, y1}, UV: [2]float32{u1, v1}, Color: br}
	v[3] = Vertex{Pos: [2]float32{x0, y1}, UV: [2]float32{u0, v1}, Color: bl}
	i[0], i[1], i[2] = base, base+1, base+2
	i[3], i[4], i[5] = base, base+2, base+3
}

func (dl *DrawList) quad(tex core.Texture, x0, y0, x1, y1, u0, v0, u1, v1 float32, tl, tr, br, bl uint32) {
	vtx, idx, base := dl.reserve(tex, 4, 6)
	putQuad(vtx, idx, base, x0, y0, x1, y1, u0, v0, u1, v1, tl, tr, br, bl)
}

// AddRectFilled draws a solid rect: 4 vertices, 6 indices.
func (dl *DrawList) AddRectFilled(x, y, w, h float32, col colors.Color) {
	dl.AddRectFilledMultiColor(x, y, w, h, col, col, col, col)
}

// AddRectFilledMultiColor draws a rect with per-corner colors
// (top-left, top-right, bottom-right, bottom-left), interpolated across it.
func (dl *DrawList) AddRectFilledMultiColor(x, y, w, h float32, tl, tr, br, bl colors.Color) {
	if w == 0 || h == 0 {
		return
	}
	dl.quad(nil, x, y, x+w, y+h, whiteUV[0], whiteUV[1], whiteUV[0], whiteUV[1],
		tl.Pack(), tr.Pack(), br.Pack(), bl.Pack())
}

// AddRect strokes the outline of a rect with an anti-aliased closed polyline.
func (dl *DrawList) AddRect(x, y, w, h float32, col colors.Color, thickness float32) {
	if w == 0 || h == 0 {
		return
	}
	pts := [4]Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	dl.AddPolyline(pts[:], col, true, thickness)
}

// AddRectCorners draws bracket-style corners: at each corner a horizontal and
// a vertical arm of cornerLen × thickness. The edges in between are left
// empty.
func (dl *DrawList) AddRectCorners(x, y, w, h float32, col colors.Color, cornerLen, thickness float32) {
	if cornerLen <= 0 || thickness <= 0 {
		return
	}
	c := col.Pack()
	L, t := cornerLen, thickness
	arms := [8][4]float32{
		{x, y, L, t}, {x, y, t, L}, // top-left
		{x + w - L, y, L, t}, {x + w - t, y, t, L}, // top-right
		{x + w - L, y + h - t, L, t}, {x + w - t, y + h - L, t, L}, // bottom-right
		{x, y + h - t, L, t}, {x, y + h - L, t, L}, // bottom-left
	}
	vtx, idx, base := dl.reserve(nil, 4*len(arms), 6*len(arms))
	for k, a := range arms {
		putQuad(vtx[4*k:], idx[6*k:], base+uint32(4*k),
			a[0], a[1], a[0]+a[2], a[1]+a[3],
			whiteUV[0], whiteUV[1], whiteUV[0], whiteUV[1], c, c, c, c)
	}
}

// AddRectBorder draws the selected edges of a rect as solid bands of the
// given thickness, inside the rect bounds.
func (dl *DrawList) AddRectBorder(x, y, w, h float32, col colors.Color, thickness float32, sides Sides) {
	if thickness <= 0 || sides&SidesAll == 0 {
		return
	}
	c := col.Pack()
	u, v := whiteUV[0], whiteUV[1]
	if sides&SideTop != 0 {
		dl.quad(nil, x, y, x+w, y+thickness, u, v, u, v, c, c, c, c)
	}
	if sides&SideRight != 0 {
		dl.quad(nil, x+w-thickness, y, x+w, y+h, u, v, u, v, c, c, c, c)
	}
	if sides&SideBottom != 0 {
		dl.quad(nil, x, y+h-thickness, x+w, y+h, u, v, u, v, c, c, c, c)
	}
	if sides&SideLeft != 0 {
		dl.quad(nil, x, y, x+thickness, y+h, u, v, u, v, c, c, c, c)
	}
}

// AddLine strokes a single anti-aliased segment. Zero-length lines are ignored.
func (dl *DrawList) AddLine(x0, y0, x1, y1 float32, col colors.Color, thickness float32) {
	if x0 == x1 && y0 == y1 {
		return
	}
	pts := [2]Vec2{{x0, y0}, {x1, y1}}
	dl.AddPolyline(pts[:], col, false, thickness)
}

// AddPolyline strokes pts with a 1px anti-aliasing fringe.
//
// Every point emits four vertices across the stroke: outer, core, core,
// outer. Core vertices sit thickness/2-0.5 from the centerline with the full
// color, outer ones thickness/2+0.5 away with zero alpha. Each segment emits
// 18 indices: the core band plus one fringe band per side. Joins use the
// average of the adjacent segment normals scaled into a miter; open ends use
// their only segment's normal.
func (dl *DrawList) AddPolyline(pts []Vec2, col colors.Color, closed bool, thickness float32) {
	n := len(pts)
	if n < 2 || thickness <= 0 {
		return
	}
	segs := n - 1
	if closed {
		segs = n
	}

	// Segment normals.
	dl.normals.Clear()
	segN := dl.normals.Alloc(n)
	for i := 0; i < segs; i++ {
		p0, p1 := pts[i], pts[(i+1)%n]
		segN[i] = segmentNormal(p0, p1)
	}
	if !closed {
		segN[n-1] = segN[n-2]
	}

	coreW := max(0, thickness*0.5-fringe*0.5)
	outerW := thickness*0.5 + fringe*0.5
	c := col.Pack()
	ct := col.WithAlpha(0).Pack()

	vtx, idx, base := dl.reserve(nil, 4*n, 18*segs)
	for i, p := range pts {
		var nm Vec2
		switch {
		case !closed && i == 0:
			nm = segN[0]
		case !closed && i == n-1:
			nm = segN[n-2]
		default:
			prev := segN[(i-1+n)%n]
			nm = miter(prev, segN[i])
		}
		v := vtx[4*i : 4*i+4]
		v[0] = Vertex{Pos: [2]float32{p.X + nm.X*outerW, p.Y + nm.Y*outerW}, UV: whiteUV, Color: ct}
		v[1] = Vertex{Pos: [2]float32{p.X + nm.X*coreW, p.Y + nm.Y*coreW}, UV: whiteUV, Color: c}
		v[2] = Vertex{Pos: [2]float32{p.X - nm.X*coreW, p.Y - nm.Y*coreW}, UV: whiteUV, Color: c}
		v[3] = Vertex{Pos: [2]float32{p.X - nm.X*outerW, p.Y - nm.Y*outerW}, UV: whiteUV, Color: ct}
	}

	for s := 0; s < segs; s++ {
		a := base + uint32(4*s)
		b := base + uint32(4*((s+1)%n))
		o := idx[18*s : 18*s+18]
		// core
		o[0], o[1], o[2] = a+1, a+2, b+2
		o[3], o[4], o[5] = a+1, b+2, b+1
		// fringe on the +normal side
		o[6], o[7], o[8] = a+0, a+1, b+1
		o[9], o[10], o[11] = a+0, b+1, b+0
		// fringe on the -normal side
		o[12], o[13], o[14] = a+2, a+3, b+3
		o[15], o[16], o[17] = a+2, b+3, b+2
	}
}

func segmentNormal(p0, p1 Vec2) Vec2 {
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	l2 := dx*dx + dy*dy
	if l2 <= 0 {
		return Vec2{}
	}
	inv := 1 / math32.Sqrt(l2)
	return Vec2{dy * inv, -dx * inv}
}

// miter averages two unit normals and rescales so that the offset keeps the
// stroke width constant across the join. Very sharp joins are capped.
func miter(a, b Vec2) Vec2 {
	m := Vec2{(a.X + b.X) * 0.5, (a.Y + b.Y) * 0.5}
	d2 := m.X*m.X + m.Y*m.Y
	if d2 > 1e-6 {
		inv := min(1/d2, 100)
		m.X *= inv
		m.Y *= inv
	}
	return m
}

func (dl *DrawList) circlePath(cx, cy, r float32, segments int) []Vec2 {
	if segments <= 0 {
		segments = dl.CircleSegments
	}
	if segments < 3 {
		segments = 3
	}
	dl.path.Clear()
	pts := dl.path.Alloc(segments)
	step := 2 * math32.Pi / float32(segments)
	for i := range pts {
		a := step * float32(i)
		pts[i] = Vec2{cx + r*math32.Cos(a), cy + r*math32.Sin(a)}
	}
	return pts
}

// AddCircle strokes a circle approximated by segments sides
// (DrawList.CircleSegments when segments <= 0).
func (dl *DrawList) AddCircle(cx, cy, r float32, col colors.Color, segments int, thickness float32) {
	if r <= 0 {
		return
	}
	dl.AddPolyline(dl.circlePath(cx, cy, r, segments), col, true, thickness)
}

// AddCircleFilled draws a triangle fan around the center:
// segments+1 vertices, 3*segments indices.
func (dl *DrawList) AddCircleFilled(cx, cy, r float32, col colors.Color, segments int) {
	if r <= 0 {
		return
	}
	pts := dl.circlePath(cx, cy, r, segments)
	n := len(pts)
	c := col.Pack()
	vtx, idx, base := dl.reserve(nil, n+1, 3*n)
	vtx[0] = Vertex{Pos: [2]float32{cx, cy}, UV: whiteUV, Color: c}
	for i, p := range pts {
		vtx[i+1] = Vertex{Pos: [2]float32{p.X, p.Y}, UV: whiteUV, Color: c}
		next := (i+1)%n + 1
		idx[3*i], idx[3*i+1], idx[3*i+2] = base, base+uint32(i+1), base+uint32(next)
	}
}

// AddConvexPolyFilled fills pts with a fan (0, i, i+1). The polygon must be
// convex; this is not checked. Fewer than 3 points are ignored.
func (dl *DrawList) AddConvexPolyFilled(pts []Vec2, col colors.Color) {
	n := len(pts)
	if n < 3 {
		return
	}
	c := col.Pack()
	vtx, idx, base := dl.reserve(nil, n, 3*(n-2))
	for i, p := range pts {
		vtx[i] = Vertex{Pos: [2]float32{p.X, p.Y}, UV: whiteUV, Color: c}
	}
	for i := 1; i < n-1; i++ {
		o := idx[3*(i-1):]
		o[0], o[1], o[2] = base, base+uint32(i), base+uint32(i+1)
	}
}
