package synth

import "fmt"

// ComponentKind selects how a Component produces samples.
type ComponentKind int

const (
	// Noise is uniform white noise in [-1, 1].
	Noise ComponentKind = iota
	// ModulatedNoise is white noise multiplied by a slow sine envelope.
	ModulatedNoise
	// Impulse emits a random-amplitude sample with probability Probability.
	Impulse
	// GatedSine emits the sine value only when a Probability draw fires.
	GatedSine
	// Sine is a plain sine at Rate radians per sample.
	Sine
)

// Component is one additive layer of a recipe.
// Rate is expressed in radians per sample; Left and Right scale the layer per
// channel.
type Component struct {
	Name        string
	Kind        ComponentKind
	Amplitude   float64
	Rate        float64
	Probability float64
	Left        float64
	Right       float64
}

// FilterType is the biquad response.
type FilterType int

const (
	FilterNone FilterType = iota
	Lowpass
	Bandpass
	Highpass
)

func (filterType FilterType) String() string {
	switch filterType {
	case Lowpass:
		return "lowpass"
	case Bandpass:
		return "bandpass"
	case Highpass:
		return "highpass"
	default:
		return "none"
	}
}

// FilterSpec configures a Biquad. Zero Q selects DefaultQ.
type FilterSpec struct {
	Type   FilterType
	Cutoff float64
	Q      float64
}

// Enabled reports whether the spec describes a real filter.
func (spec FilterSpec) Enabled() bool {
	return spec.Type != FilterNone && spec.Cutoff > 0
}

// BinauralSpec describes two sine tones: Base on the left, Base+Beat on the
// right.
type BinauralSpec struct {
	Base float64
	Beat float64
}

// Right returns the right channel frequency.
func (spec BinauralSpec) Right() float64 {
	return spec.Base + spec.Beat
}

// Recipe is the static description of a generator.
type Recipe struct {
	Generator   Generator
	LoopSeconds float64
	Components  []Component
	Filter      FilterSpec
	Binaural    *BinauralSpec
	GainScale   float64
}

const (
	binauralBase      = 200.0
	binauralGainScale = 0.3
	binauralLoop      = 2.0
)

var recipes = map[Generator]Recipe{
	Storm: {
		LoopSeconds: 3,
		Components: []Component{
			{Name: "rain", Kind: Noise, Amplitude: 0.3, Left: 1, Right: 1},
			{Name: "thunder", Kind: Impulse, Amplitude: 0.8, Probability: 0.002, Left: 1, Right: 0.8},
			{Name: "wind", Kind: Sine, Amplitude: 0.2, Rate: 0.001, Left: 1, Right: 0.9},
		},
		Filter: FilterSpec{Type: Lowpass, Cutoff: 600},
	},
	Forest: {
		LoopSeconds: 4,
		Components: []Component{
			{Name: "birds", Kind: GatedSine, Amplitude: 0.3, Rate: 0.1, Probability: 0.005, Left: 1, Right: 0.8},
			{Name: "leaves", Kind: ModulatedNoise, Amplitude: 0.1, Rate: 0.002, Left: 1, Right: 1.1},
			{Name: "water", Kind: Sine, Amplitude: 0.05, Rate: 0.005, Left: 1, Right: 1},
		},
		Filter: FilterSpec{Type: Bandpass, Cutoff: 800, Q: 0.5},
	},
	Ocean: {
		LoopSeconds: 6,
		Components: []Component{
			{Name: "swell", Kind: Sine, Amplitude: 0.4, Rate: 0.008, Left: 1, Right: 0.9},
			{Name: "wave", Kind: Sine, Amplitude: 0.3, Rate: 0.012, Left: 1, Right: 1.1},
			{Name: "foam", Kind: Noise, Amplitude: 0.15, Left: 1, Right: 0.8},
		},
		Filter: FilterSpec{Type: Lowpass, Cutoff: 400},
	},
	Coffee: {
		LoopSeconds: 3,
		Components: []Component{
			{Name: "chatter", Kind: Sine, Amplitude: 0.15, Rate: 0.003, Left: 1, Right: 0.9},
			{Name: "machine", Kind: Impulse, Amplitude: 0.4, Probability: 0.003, Left: 1, Right: 0.7},
			{Name: "ambience", Kind: Noise, Amplitude: 0.1, Left: 1, Right: 1.1},
		},
		Filter: FilterSpec{Type: Bandpass, Cutoff: 1200, Q: 1},
	},
	Fire: {
		LoopSeconds: 3,
		Components: []Component{
			{Name: "crackle", Kind: Impulse, Amplitude: 0.5, Probability: 0.01, Left: 1, Right: 0.8},
			{Name: "base", Kind: Noise, Amplitude: 0.08, Left: 1, Right: 1.1},
			{Name: "pop", Kind: Impulse, Amplitude: 0.3, Probability: 0.001, Left: 1, Right: 0.9},
		},
		Filter: FilterSpec{Type: Lowpass, Cutoff: 250},
	},
	Wind: {
		LoopSeconds: 4,
		Components: []Component{
			{Name: "gust", Kind: Sine, Amplitude: 0.3, Rate: 0.001, Left: 1, Right: 0.9},
			{Name: "drift", Kind: Sine, Amplitude: 0.2, Rate: 0.0015, Left: 1, Right: 1.1},
			{Name: "whistle", Kind: Noise, Amplitude: 0.12, Left: 1, Right: 0.8},
		},
		Filter: FilterSpec{Type: Highpass, Cutoff: 150},
	},
	Gamma40: binauralRecipe(40),
	Beta20:  binauralRecipe(20),
	Alpha10: binauralRecipe(10),
	Theta6:  binauralRecipe(6),
	Delta3:  binauralRecipe(3),
	Focus15: binauralRecipe(15),
}

func binauralRecipe(beat float64) Recipe {
	return Recipe{
		LoopSeconds: binauralLoop,
		Binaural:    &BinauralSpec{Base: binauralBase, Beat: beat},
		GainScale:   binauralGainScale,
	}
}

// RecipeFor returns the recipe of generator.
func RecipeFor(generator Generator) (Recipe, error) {
	recipe, ok := recipes[generator]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %s", ErrUnknownGenerator, generator)
	}
	recipe.Generator = generator
	if recipe.GainScale == 0 {
		recipe.GainScale = 1
	}
	recipe.Components = append([]Component(nil), recipe.Components...)
	if recipe.Binaural != nil {
		binaural := *recipe.Binaural
		recipe.Binaural = &binaural
	}
	return recipe, nil
}
