package core

import "math"

// HSLToRGB converts hue, saturation and lightness to RGB.
// Hue wraps into [0, 1); saturation and lightness are clamped to [0, 1].
func HSLToRGB(h, s, l float64) RGB {
	h = h - math.Floor(h)
	s = clamp01(s)
	l = clamp01(l)

	if s == 0 {
		return RGB{l, l, l}
	}

	var p float64
	if l <= 0.5 {
		p = l * (1 + s)
	} else {
		p = l + s - l*s
	}
	q := 2*l - p

	return RGB{
		R: hueToRGB(q, p, h+1.0/3.0),
		G: hueToRGB(q, p, h),
		B: hueToRGB(q, p, h-1.0/3.0),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*6*(2.0/3.0-t)
	}
	return p
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
