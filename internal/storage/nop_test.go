package storage

import (
	"image/color"

	"github.com/san-kum/driftmesh/internal/palette"
)

type nopContext struct{}

func (nopContext) SetFillColor(color.Color)   {}
func (nopContext) SetStrokeColor(color.Color) {}
func (nopContext) SetLineWidth(float64)       {}
func (nopContext) FillRect(_, _, _, _ float64) {}
func (nopContext) BeginPath()                 {}
func (nopContext) MoveTo(_, _ float64)        {}
func (nopContext) LineTo(_, _ float64)        {}
func (nopContext) ClosePath()                 {}
func (nopContext) Fill()                      {}
func (nopContext) Stroke()                    {}

func (nopContext) FillRadialGradient(_, _, _ float64, _ []palette.Stop, _, _, _, _ float64) {}
