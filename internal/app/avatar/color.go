package avatar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Color is an HSL colour. Saturation and Lightness are percentages.
type Color struct {
	Hue        int
	Saturation int
	Lightness  int
}

// String renders the colour as a CSS hsl() value.
func (c Color) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.Hue, c.Saturation, c.Lightness)
}

// ColorFor maps factor to a stable colour. The factor is hashed byte for
// byte; any difference, including case, can change the colour.
// Lightness stays in 35-49% so white initials remain readable.
func ColorFor(factor string) Color {
	sum := sha256.Sum256([]byte(factor))
	return Color{
		Hue:        int(binary.BigEndian.Uint16(sum[0:2]) % 360),
		Saturation: 45 + int(sum[2])%30,
		Lightness:  35 + int(sum[3])%15,
	}
}
