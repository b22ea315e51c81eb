package mining

import (
	"math"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
)

const (
	// StressStandoff is how far ahead of the face the stress zone sits.
	StressStandoff = 50.0
	// ReliefStandoff is how far behind the face the relief zone sits.
	ReliefStandoff = 30.0
)

// FrontLine is the current position of the mining face.
type FrontLine struct {
	Segment geom.Segment
	Center  geom.Point
	Length  float64

	// Angle is the orientation of the segment, perpendicular to the advance.
	Angle float64
}

// Zone is an emission region attached to the front line at a fixed standoff.
type Zone struct {
	Distance float64
	Front    FrontLine
	Segment  geom.Segment
	Area     geom.Bounds

	// Direction is the unit vector particles leave the zone along.
	Direction geom.Point
}

// DirectionRadians returns the advance heading, (direction-90°) in radians.
func (s *Simulator) DirectionRadians() float64 {
	return (s.direction - 90) * math.Pi / 180
}

// advance returns the unit vector along the advance heading.
func (s *Simulator) advance() geom.Point {
	a := s.DirectionRadians()
	return geom.Point{X: math.Cos(a), Y: math.Sin(a)}
}

func (s *Simulator) lineAt(progress float64) (FrontLine, bool) {
	b, ok := s.workface.Extent()
	if !ok {
		return FrontLine{}, false
	}
	angle := s.DirectionRadians()
	distance := b.Width() * (progress / 100)
	center := geom.Point{X: b.MinX, Y: b.Center().Y}.Polar(angle, distance)
	perp := angle + math.Pi/2
	half := b.Height() / 2
	return FrontLine{
		Segment: geom.Segment{A: center.Polar(perp, -half), B: center.Polar(perp, half)},
		Center:  center,
		Angle:   perp,
		Length:  b.Height(),
	}, true
}

// FrontLine returns the face at the current progress and direction.
func (s *Simulator) FrontLine() (FrontLine, bool) {
	return s.lineAt(s.progress)
}

// Goaf returns the mined-out quadrilateral [backStart, backEnd, frontEnd,
// frontStart]. The back edge is the face's progress-0 position.
func (s *Simulator) Goaf() ([]geom.Point, bool) {
	front, ok := s.FrontLine()
	if !ok {
		return nil, false
	}
	back, _ := s.lineAt(0)
	return []geom.Point{back.Segment.A, back.Segment.B, front.Segment.B, front.Segment.A}, true
}

// StressZone returns the region StressStandoff metres ahead of the face.
func (s *Simulator) StressZone() (Zone, bool) {
	return s.zone(StressStandoff, 1)
}

// ReliefZone returns the region ReliefStandoff metres behind the face, with
// particles heading back into the goaf.
func (s *Simulator) ReliefZone() (Zone, bool) {
	return s.zone(ReliefStandoff, -1)
}

func (s *Simulator) zone(distance, sign float64) (Zone, bool) {
	front, ok := s.FrontLine()
	if !ok {
		return Zone{}, false
	}
	dir := s.advance().Scale(sign)
	seg := front.Segment.Translate(dir.Scale(distance))
	area, _ := geom.BoundsOf([]geom.Point{front.Segment.A, front.Segment.B, seg.A, seg.B})
	return Zone{
		Distance:  distance,
		Front:     front,
		Segment:   seg,
		Area:      area,
		Direction: dir,
	}, true
}
