package models

import "fmt"

// RGB is a color for the robot's chest LED.
//
// The firmware expects lowercase component keys, hence the custom JSON tags.
type RGB struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

// RGBFromHex builds an RGB from a packed 0xRRGGBB value.
func RGBFromHex(h int) RGB {
	return RGB{
		Red:   (h >> 16) & 0xff,
		Green: (h >> 8) & 0xff,
		Blue:  h & 0xff,
	}
}

// Hex returns the color as a packed 0xRRGGBB value.
func (c RGB) Hex() int {
	return c.Red<<16 + c.Green<<8 + c.Blue
}

// Validate checks that every component is in [0, 255].
func (c RGB) Validate() error {
	for _, v := range []int{c.Red, c.Green, c.Blue} {
		if v < 0 || v > 255 {
			return fmt.Errorf("color values must be in [0, 255]: %v", c)
		}
	}
	return nil
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}
