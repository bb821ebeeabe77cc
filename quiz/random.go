package quiz

import (
	"math/rand/v2"

	"ramsblog/models"
)

// Randomizer is the source of randomness for shuffles and picks.
// *rand.Rand from math/rand/v2 satisfies it.
type Randomizer interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalRand uses the top-level math/rand/v2 functions, which are safe for
// concurrent use by handlers.
type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// ShuffleOptions returns the four option values of q in a fresh random
// order and the index of the correct option within that order.
func ShuffleOptions(q *models.Question, rnd Randomizer) ([]string, int) {
	slots := make([]models.OptionSlot, len(models.OptionSlots))
	copy(slots, models.OptionSlots)
	rnd.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})

	options := make([]string, len(slots))
	correct := -1
	for i, slot := range slots {
		options[i] = q.Option(slot)
		if slot == q.CorrectOption {
			correct = i
		}
	}
	return options, correct
}

// Sample picks up to k distinct ids uniformly without replacement.
func Sample(ids []uint, k int, rnd Randomizer) []uint {
	shuffled := make([]uint, len(ids))
	copy(shuffled, ids)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if k < 0 || k > len(shuffled) {
		k = len(shuffled)
	}
	return shuffled[:k]
}
