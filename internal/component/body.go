package component

import (
	"fmt"
	"strings"
)

// Class discriminates the Body variant.
type Class uint8

const (
	ClassNone Class = iota
	ClassPlanet
	ClassMoon
	ClassStar
	ClassBlackHole
	ClassAsteroid
)

var classNames = [...]string{
	ClassNone:      "none",
	ClassPlanet:    "planet",
	ClassMoon:      "moon",
	ClassStar:      "star",
	ClassBlackHole: "blackhole",
	ClassAsteroid:  "asteroid",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// ParseClass accepts the names produced by String, case-insensitively.
func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range classNames {
		if i > 0 && name == s {
			return Class(i), nil
		}
	}
	if s == "black-hole" || s == "black_hole" {
		return ClassBlackHole, nil
	}
	return ClassNone, fmt.Errorf("unknown body class %q", s)
}

// Attractor reports whether bodies of this class anchor orbit tracking.
func (c Class) Attractor() bool {
	return c == ClassStar || c == ClassBlackHole
}

type PlanetProps struct {
	AxialTilt      float64
	RotationPeriod float64
}

type StarProps struct {
	Luminosity  float64
	Temperature float64
}

type BlackHoleProps struct {
	EventHorizon float64
	Spin         float64
}

// Body is the visual and class data of a celestial body. The class-specific
// payload is reachable only through the accessor matching the class.
type Body struct {
	Radius  float64
	Color   uint32
	class   Class
	payload [2]float64
}

func NewPlanet(radius float64, color uint32, p PlanetProps) Body {
	return Body{Radius: radius, Color: color, class: ClassPlanet, payload: [2]float64{p.AxialTilt, p.RotationPeriod}}
}

func NewStar(radius float64, color uint32, p StarProps) Body {
	return Body{Radius: radius, Color: color, class: ClassStar, payload: [2]float64{p.Luminosity, p.Temperature}}
}

func NewBlackHole(radius float64, color uint32, p BlackHoleProps) Body {
	return Body{Radius: radius, Color: color, class: ClassBlackHole, payload: [2]float64{p.EventHorizon, p.Spin}}
}

func NewMoon(radius float64, color uint32) Body {
	return Body{Radius: radius, Color: color, class: ClassMoon}
}

func NewAsteroid(radius float64, color uint32) Body {
	return Body{Radius: radius, Color: color, class: ClassAsteroid}
}

// NewBody builds a body of class c with default class properties.
func NewBody(c Class, radius float64, color uint32) (Body, error) {
	switch c {
	case ClassPlanet:
		return NewPlanet(radius, color, PlanetProps{}), nil
	case ClassMoon:
		return NewMoon(radius, color), nil
	case ClassStar:
		return NewStar(radius, color, StarProps{Luminosity: 1}), nil
	case ClassBlackHole:
		return NewBlackHole(radius, color, BlackHoleProps{EventHorizon: radius}), nil
	case ClassAsteroid:
		return NewAsteroid(radius, color), nil
	}
	return Body{}, fmt.Errorf("unknown body class %d", c)
}

func (b *Body) Class() Class { return b.class }

func (b *Body) Planet() (PlanetProps, bool) {
	if b.class != ClassPlanet {
		return PlanetProps{}, false
	}
	return PlanetProps{AxialTilt: b.payload[0], RotationPeriod: b.payload[1]}, true
}

func (b *Body) Star() (StarProps, bool) {
	if b.class != ClassStar {
		return StarProps{}, false
	}
	return StarProps{Luminosity: b.payload[0], Temperature: b.payload[1]}, true
}

func (b *Body) BlackHole() (BlackHoleProps, bool) {
	if b.class != ClassBlackHole {
		return BlackHoleProps{}, false
	}
	return BlackHoleProps{EventHorizon: b.payload[0], Spin: b.payload[1]}, true
}
