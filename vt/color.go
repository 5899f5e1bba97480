// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/color.go
// Summary: Color capability detection and xterm-256 quantization.

package vt

import (
	"os"
	"strings"

	"github.com/framegrace/texelcore/grid"
)

// ColorMode is the terminal's color capability, fixed for the session at
// encoder construction.
type ColorMode uint8

const (
	// ColorMode256 quantizes 24-bit cells to the xterm-256 palette.
	ColorMode256 ColorMode = iota
	// ColorModeTrueColor emits direct RGB sequences.
	ColorModeTrueColor
)

// Color cube levels for palette indices 16-231.
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// cubeIndex maps a channel value to its nearest cube level.
var cubeIndex [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		best := 0
		bestDist := absInt(i - int(cubeValues[0]))
		for j := 1; j < 6; j++ {
			if d := absInt(i - int(cubeValues[j])); d < bestDist {
				bestDist = d
				best = j
			}
		}
		cubeIndex[i] = uint8(best)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 returns the nearest xterm-256 palette index for a 24-bit color,
// preferring the grayscale ramp (232-255) when the channels are close.
func RGBTo256(c grid.RGB) uint8 {
	gray := (int(c.R) + int(c.G) + int(c.B)) / 3
	maxDiff := max(absInt(int(c.R)-gray), absInt(int(c.G)-gray), absInt(int(c.B)-gray))

	cr, cg, cb := cubeIndex[c.R], cubeIndex[c.G], cubeIndex[c.B]
	cubeDist := absInt(int(c.R)-int(cubeValues[cr])) +
		absInt(int(c.G)-int(cubeValues[cg])) +
		absInt(int(c.B)-int(cubeValues[cb]))

	if maxDiff < 10 {
		if gray < 4 {
			return 16 // cube (0,0,0) beats the lightest gray for near-black
		}
		if gray > 243 {
			return 231 // cube (5,5,5)
		}
		grayIdx := uint8(232 + (gray-8)/10)
		grayLevel := 8 + int(grayIdx-232)*10
		grayDist := absInt(int(c.R)-grayLevel) + absInt(int(c.G)-grayLevel) + absInt(int(c.B)-grayLevel)
		if grayDist < cubeDist {
			return grayIdx
		}
	}

	return 16 + 36*cr + 6*cg + cb
}

// DetectColorMode inspects the environment for truecolor capability.
// The result is configuration, picked once at startup.
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	for _, v := range []string{
		"KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID",
		"ALACRITTY_WINDOW_ID", "WEZTERM_PANE",
	} {
		if os.Getenv(v) != "" {
			return ColorModeTrueColor
		}
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}
