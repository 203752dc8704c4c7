/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"strings"

	"github.com/mikeb26/armelo/elo"
	"github.com/mikeb26/armelo/ranking"
)

const noSlider = -1

func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "Path to config file")
}

func armFlag(fs *flag.FlagSet) *string {
	return fs.String("arm", "right", "Arm to use (right or left)")
}

func formatFlag(fs *flag.FlagSet, def string) *string {
	return fs.String("format", def, "Supermatch format (see 'armelo formats')")
}

// scoreFlags registers the two ways of entering a result.
func scoreFlags(fs *flag.FlagSet) (slider *int, score *string) {
	slider = fs.Int("slider", noSlider, "Slider position from 0 (widest loss) to the format's round count")
	score = fs.String("score", "", "Custom score such as 3-1")
	return slider, score
}

// refList collects repeated OPPONENT:A-B flags.
type refList []string

func (r *refList) String() string {
	return strings.Join(*r, ",")
}

func (r *refList) Set(v string) error {
	*r = append(*r, v)
	return nil
}

// resolveScore turns the slider or custom score flags into a Score for f.
// A custom score that does not fit f is replaced by f's default score and
// fellBack is set. With neither flag the narrowest win for side A is used.
func resolveScore(f elo.Format, slider int, score string) (ret elo.Score,
	fellBack bool, err error) {

	score = strings.TrimSpace(score)
	if slider != noSlider && score != "" {
		return elo.Score{}, false, errors.New("use either --slider or --score, not both")
	}
	if score == "" {
		if slider == noSlider {
			slider = f.DefaultSlider()
		}
		ret, err = f.SliderScore(slider)
		return ret, false, err
	}

	parsed, err := elo.ParseScore(score)
	if err == nil && parsed.A == math.Trunc(parsed.A) &&
		parsed.B == math.Trunc(parsed.B) {

		ret, err = f.CustomScore(int(parsed.A), int(parsed.B))
		if err == nil {
			return ret, false, nil
		}
	}
	return f.DefaultScore(), true, nil
}

// parseReference parses OPPONENT:A-B where A is the newcomer's rounds.
func parseReference(s string, f elo.Format) (ranking.Reference, bool, error) {
	sep := strings.LastIndex(s, ":")
	if sep <= 0 {
		return ranking.Reference{}, false,
			fmt.Errorf("reference %q is not OPPONENT:A-B", s)
	}
	name := strings.TrimSpace(s[:sep])
	if name == "" {
		return ranking.Reference{}, false, ranking.ErrInvalidName
	}
	score, fellBack, err := resolveScore(f, noSlider, s[sep+1:])
	if err != nil {
		return ranking.Reference{}, false, err
	}
	return ranking.Reference{Opponent: name, Score: score}, fellBack, nil
}

// twoNames returns the two positional competitor names.
func twoNames(fs *flag.FlagSet) (string, string, error) {
	if fs.NArg() != 2 {
		return "", "", fmt.Errorf("expected two competitor names, got %d", fs.NArg())
	}
	return fs.Arg(0), fs.Arg(1), nil
}
