package main

import (
	"fmt"

	"osbgen/dotosu"
	"osbgen/osb"
)

// buildHighlight makes one sprite per slider that fades in at the slider's
// head, follows the ball along the path and fades out at the end.
func buildHighlight(b *dotosu.Beatmap, hc HighlightConfig) (*osb.Container, error) {
	if hc.Step <= 0 {
		return nil, fmt.Errorf("highlight step %d must be positive", hc.Step)
	}
	sliders, err := b.ResolveSliders()
	if err != nil {
		return nil, err
	}
	c, err := osb.NewContainer()
	if err != nil {
		return nil, err
	}
	for _, r := range sliders {
		if err := c.Add(followSprite(r, hc)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func followSprite(r *dotosu.ResolvedSlider, hc HighlightConfig) *osb.Sprite {
	start, end := r.Time, r.EndTime()
	at := func(t int) osb.Vector2 { return r.StoryboardPositionAtTime(float64(t)) }

	s := osb.NewSprite(hc.Sprite, osb.LayerForeground, osb.Centre, at(start))
	fade := osb.Ms(hc.Fade)
	s.Fade(osb.Ms(start)-fade, osb.Ms(start), 0, 1)
	s.Scale(osb.Ms(start), osb.Ms(start), hc.Scale, hc.Scale)
	for t := start; t < end; t += hc.Step {
		next := min(t+hc.Step, end)
		s.Move(osb.Ms(t), osb.Ms(next), at(t), at(next))
	}
	s.Fade(osb.Ms(end), osb.Ms(end)+fade, 1, 0)
	return s
}
