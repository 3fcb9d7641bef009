// Package variation draws the per-request length window and narrative
// structure that keep consecutive reviews from sounding alike.
package variation

import "math/rand/v2"

// LengthRange is a target character window, inclusive on both ends
type LengthRange struct {
	Min int
	Max int
}

// Parameters is one variation draw
type Parameters struct {
	Range     LengthRange
	Structure string
}

// LengthRanges overlap so consecutive picks differ in feel but stay comparable
var LengthRanges = []LengthRange{
	{Min: 200, Max: 250},
	{Min: 250, Max: 300},
	{Min: 300, Max: 350},
	{Min: 220, Max: 280},
	{Min: 260, Max: 320},
}

// StructureHints are the narrative scaffolds offered to the model
var StructureHints = []string{
	"Start with a personal feeling, then describe the experience, end with impact",
	"Begin with what you noticed first, explain the service, mention a specific moment",
	"Start with expectations, describe what happened, share how it made you feel",
	"Open with a concern you had, explain how it was handled, conclude with result",
	"Start with a recommendation from someone, describe your visit, share your opinion",
	"Begin with comparison to others, detail your experience, end with personal touch",
}

// Chooser picks an index in [0, n)
type Chooser interface {
	IntN(n int) int
}

type randChooser struct{}

func (randChooser) IntN(n int) int { return rand.IntN(n) }

// Selector draws variation parameters. Draws are independent: repeats are allowed.
type Selector struct {
	chooser Chooser
}

// NewSelector returns a selector using chooser, or the global random source when nil
func NewSelector(chooser Chooser) *Selector {
	if chooser == nil {
		chooser = randChooser{}
	}
	return &Selector{chooser: chooser}
}

// PickLengthRange returns one of LengthRanges uniformly at random
func (s *Selector) PickLengthRange() LengthRange {
	return LengthRanges[s.chooser.IntN(len(LengthRanges))]
}

// PickStructureHint returns one of StructureHints uniformly at random
func (s *Selector) PickStructureHint() string {
	return StructureHints[s.chooser.IntN(len(StructureHints))]
}

// Draw picks a structure hint and a length range
func (s *Selector) Draw() Parameters {
	structure := s.PickStructureHint()
	return Parameters{
		Range:     s.PickLengthRange(),
		Structure: structure,
	}
}

// Fixed is a Chooser that replays the given indices in order and then repeats the last one
type Fixed struct {
	Indices []int
	next    int
}

// IntN implements Chooser
func (f *Fixed) IntN(n int) int {
	if len(f.Indices) == 0 {
		return 0
	}
	i := f.Indices[len(f.Indices)-1]
	if f.next < len(f.Indices) {
		i = f.Indices[f.next]
		f.next++
	}
	return i % n
}
