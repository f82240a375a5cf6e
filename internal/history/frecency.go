package history

import (
	"math"
	"time"
)

// DefaultHalfLife is the age at which a launch counts half as much.
const DefaultHalfLife = 7 * 24 * time.Hour

// Score combines how often and how recently a button was used.
func Score(c Count, now time.Time, halfLife time.Duration) float64 {
	if halfLife <= 0 {
		halfLife = DefaultHalfLife
	}
	age := now.Sub(c.Last)
	if age < 0 {
		age = 0
	}
	recency := 100 * math.Pow(0.5, float64(age)/float64(halfLife))
	return float64(c.Count)*0.5 + recency*0.5
}

// Frecency returns a score per button id for completed activations.
func (s *Store) Frecency(halfLife time.Duration) (map[string]float64, error) {
	counts, err := s.Counts()
	if err != nil {
		return nil, err
	}
	now := s.now()
	scores := make(map[string]float64, len(counts))
	for _, c := range counts {
		scores[c.ButtonID] = Score(c, now, halfLife)
	}
	return scores, nil
}
