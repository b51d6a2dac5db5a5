package tests

import (
	"math/rand"
	"time"
)

var (
	userNames = []string{"lode", "johnny", "michiel", "anna", "sven"}                 //nolint:gochecknoglobals
	carBrands = []string{"traktor", "tesla", "audi a4", "volkswagen golf", "volvo"} //nolint:gochecknoglobals
)

// Randomizer produces scan fields for tests that do not care about the
// concrete values.
type Randomizer struct {
	UserName    func() string
	CarBrand    func() string
	ScoreNumber func() int
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // for tests

	return Randomizer{
		UserName:    func() string { return userNames[random.Intn(len(userNames))] },
		CarBrand:    func() string { return carBrands[random.Intn(len(carBrands))] },
		ScoreNumber: func() int { return random.Intn(10) }, //nolint:mnd // skip
	}
}
