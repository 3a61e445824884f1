// Package demo is a small annotated fixture consumed by the generator
// integration tests.
package demo

import (
	"fmt"

	"github.com/mirrorlang/mirror/capability"
)

// Reflect is the annotation used throughout this module. It grants every
// capability through embedding.
type Reflect struct {
	capability.WithAll
}

// Doc is a plain annotation value carrying member documentation.
type Doc struct {
	Text string
}

// Point is a mutable 2D point.
//
//mirror:Reflect{}
type Point struct {
	X float64
	Y float64
}

// NewPoint is the primary constructor.
func NewPoint(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

// NewPointOrigin is the named constructor "origin".
func NewPointOrigin() *Point {
	return &Point{}
}

// Scale multiplies both coordinates in place.
func (p *Point) Scale(f float64) {
	p.X *= f
	p.Y *= f
}

// Norm is getter-shaped: zero parameters, one result.
func (p *Point) Norm() float64 {
	return p.X*p.X + p.Y*p.Y
}

// Color is a small enum.
//
//mirror:Reflect{}
type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

// Add sums two ints; b defaults when omitted.
//
//mirror:Reflect{}
//mirror:defaults b=10
func Add(a, b int) int {
	return a + b
}

// Parse reads an "x,y" pair into a point.
//
//mirror:Reflect{}
func Parse(s string) (Point, error) {
	var p Point
	_, err := fmt.Sscanf(s, "%f,%f", &p.X, &p.Y)
	return p, err
}

// Shape is the base embedded by Circle.
//
//mirror:Reflect{}
type Shape struct {
	ID  int
	Tag int
}

// Describe names the shape kind.
//
//mirror:Doc{Text: "describes the shape"}
func (s Shape) Describe() string {
	return "shape"
}

// Circle embeds Shape. Its own ID shadows the embedded one, and Describe
// overrides without restating the annotation.
//
//mirror:Reflect{}
type Circle struct {
	Shape
	ID     string
	Radius float64
}

// Describe names the shape kind.
func (c Circle) Describe() string {
	return "circle"
}

// Box wraps a value. Generic declarations are not collected.
//
//mirror:Reflect{}
type Box[T any] struct {
	Value T
}
