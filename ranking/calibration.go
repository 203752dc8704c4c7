/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ranking

import "math"

// Calibration is a running average of implied ratings used to seed a new
// competitor. Refs counts the results folded in so far.
type Calibration struct {
	Rating float64
	Refs   int
}

func (c *Calibration) Add(implied float64) {
	if c.Refs == 0 {
		c.Rating = implied
	} else {
		c.Rating = (c.Rating*float64(c.Refs) + implied) / float64(c.Refs+1)
	}
	c.Refs++
	c.Rating = math.Round(c.Rating)
}
