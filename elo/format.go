/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"fmt"
	"strings"
)

// Kind selects how a format turns a slider value into a round score.
type Kind int

const (
	// BestOf ends as soon as one side reaches a majority of the rounds.
	BestOf Kind = iota
	// AllRounds plays every round and accumulates the result.
	AllRounds
	// Vendetta plays Rounds-1 rounds and adds a decider only on a tie.
	Vendetta
)

func (k Kind) String() string {
	switch k {
	case BestOf:
		return "Best of"
	case AllRounds:
		return "All rounds"
	case Vendetta:
		return "Vendetta"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "best of", "bestof", "best-of":
		return BestOf, nil
	case "all rounds", "allrounds", "all-rounds":
		return AllRounds, nil
	case "vendetta":
		return Vendetta, nil
	}
	return 0, fmt.Errorf("%w: kind %q", ErrUnknownFormat, s)
}

// Format describes a named supermatch format.
type Format struct {
	Name string
	// Rounds is the number of round slots. For Vendetta this includes the
	// decider.
	Rounds int
	// KFactor weights the rating update for matches in this format.
	KFactor float64
	Kind    Kind
}

// Formats lists the supported supermatch formats in display order.
var Formats = []Format{
	{Name: "Single round", Rounds: 1, KFactor: 64, Kind: BestOf},
	{Name: "Best of 3", Rounds: 3, KFactor: 96, Kind: BestOf},
	{Name: "Best of 5", Rounds: 5, KFactor: 128, Kind: BestOf},
	{Name: "5 round match", Rounds: 5, KFactor: 144, Kind: AllRounds},
	{Name: "6 round Vendetta", Rounds: 6 + 1, KFactor: 144, Kind: Vendetta},
	{Name: "Best of 7", Rounds: 7, KFactor: 144, Kind: BestOf},
	{Name: "10 round Speculative", Rounds: 10, KFactor: 128, Kind: AllRounds},
}

const (
	DefaultFormatName        = "Best of 5"
	DefaultOnboardFormatName = "10 round Speculative"
)

// LookupFormat finds a format by name, ignoring case.
func LookupFormat(name string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(f.Name, strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

func (f Format) Validate() error {
	if f.Rounds < 1 {
		return fmt.Errorf("%w: format %q has %d", ErrInvalidRounds, f.Name, f.Rounds)
	}
	switch f.Kind {
	case BestOf, AllRounds, Vendetta:
		return nil
	}
	return fmt.Errorf("%w: format %q has %v", ErrUnknownFormat, f.Name, f.Kind)
}

func winsRequired(rounds int) int {
	return rounds/2 + 1
}

// DefaultSlider is the slider position of the narrowest win for side A.
func (f Format) DefaultSlider() int {
	return winsRequired(f.Rounds)
}

// DefaultScore is the score used when a custom score is rejected.
func (f Format) DefaultScore() Score {
	wins := winsRequired(f.Rounds)
	return NewScore(wins, f.Rounds-wins)
}

// CustomScore validates a hand-entered score against the format: each side
// within [0, Rounds] and at least one but no more than Rounds rounds played.
func (f Format) CustomScore(a, b int) (Score, error) {
	if a < 0 || b < 0 || a > f.Rounds || b > f.Rounds || a+b <= 0 ||
		a+b > f.Rounds {

		return Score{}, fmt.Errorf("%w: %d-%d in %q", ErrInvalidScore, a, b, f.Name)
	}
	return NewScore(a, b), nil
}

func (f Format) SliderScore(slider int) (Score, error) {
	return MapSliderToScore(f.Rounds, slider, f.Kind)
}

// MapSliderToScore converts a slider position in [0, maxRounds] into a round
// score. 0 is the widest loss for side A and maxRounds its widest win.
// Positions outside the range are clamped.
func MapSliderToScore(maxRounds, slider int, kind Kind) (Score, error) {
	if maxRounds < 1 {
		return Score{}, fmt.Errorf("%w: %d", ErrInvalidRounds, maxRounds)
	}
	if slider < 0 {
		slider = 0
	} else if slider > maxRounds {
		slider = maxRounds
	}

	var a, b int
	switch kind {
	case BestOf:
		wins := winsRequired(maxRounds)
		if slider < wins {
			a, b = slider, wins
		} else {
			a, b = wins, maxRounds-slider
		}
		// the only representable tie
		if maxRounds%2 == 0 && slider == maxRounds/2 {
			a, b = slider, slider
		}
	case AllRounds:
		a, b = slider, maxRounds-slider
	case Vendetta:
		wins := winsRequired(maxRounds)
		played := maxRounds - 1
		if slider < wins {
			a, b = slider, played-slider
			if slider == wins-1 {
				// lost the decider
				b = wins
			}
		} else {
			a, b = slider-1, played-(slider-1)
			if slider == wins {
				// won the decider
				a, b = wins, wins-1
			}
		}
	default:
		return Score{}, fmt.Errorf("%w: %v", ErrUnknownFormat, kind)
	}

	return NewScore(a, b), nil
}
