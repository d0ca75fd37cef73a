package synth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGenerator is returned for names outside the generator set.
var ErrUnknownGenerator = errors.New("unknown generator")

// Generator identifies one ambient soundscape.
type Generator int

const (
	Storm Generator = iota + 1
	Forest
	Ocean
	Coffee
	Fire
	Wind
	Gamma40
	Beta20
	Alpha10
	Theta6
	Delta3
	Focus15
)

var generatorNames = map[Generator]string{
	Storm:   "storm",
	Forest:  "forest",
	Ocean:   "ocean",
	Coffee:  "coffee",
	Fire:    "fire",
	Wind:    "wind",
	Gamma40: "gamma40",
	Beta20:  "beta20",
	Alpha10: "alpha10",
	Theta6:  "theta6",
	Delta3:  "delta3",
	Focus15: "focus15",
}

var generatorLabels = map[Generator]string{
	Storm:   "Storm",
	Forest:  "Forest",
	Ocean:   "Ocean Waves",
	Coffee:  "Coffee Shop",
	Fire:    "Fireplace",
	Wind:    "Wind",
	Gamma40: "Gamma 40 Hz",
	Beta20:  "Beta 20 Hz",
	Alpha10: "Alpha 10 Hz",
	Theta6:  "Theta 6 Hz",
	Delta3:  "Delta 3 Hz",
	Focus15: "Focus 15 Hz",
}

// Generators lists every generator in display order.
func Generators() []Generator {
	return []Generator{Storm, Forest, Ocean, Coffee, Fire, Wind, Gamma40, Beta20, Alpha10, Theta6, Delta3, Focus15}
}

// String returns the stable identifier used in settings and on the wire.
func (generator Generator) String() string {
	if name, ok := generatorNames[generator]; ok {
		return name
	}
	return fmt.Sprintf("generator(%d)", int(generator))
}

// Label returns a human readable name.
func (generator Generator) Label() string {
	if label, ok := generatorLabels[generator]; ok {
		return label
	}
	return generator.String()
}

// Valid reports whether generator is part of the closed set.
func (generator Generator) Valid() bool {
	_, ok := generatorNames[generator]
	return ok
}

// IsBinaural reports whether generator renders two pure tones.
func (generator Generator) IsBinaural() bool {
	return generator >= Gamma40 && generator <= Focus15
}

// ParseGenerator maps a name to a Generator.
func ParseGenerator(name string) (Generator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for generator, candidate := range generatorNames {
		if candidate == name {
			return generator, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
}
