package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed      int64 // RNG seed for this game (for replay)
	Scores    []int // final score per seat
	Rounds    int   // rounds completed
	Exhausted bool  // the deck ran out before the round limit
	TimedOut  bool  // the game was abandoned by the watchdog
}

// Series accumulates a stream of samples
type Series struct {
	N      int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation
}

// Add records one sample
func (s *Series) Add(v float64) {
	s.N++
	s.Sum += v
	s.Sum2 += v * v
	s.Values = append(s.Values, v)
}

// Mean returns the arithmetic mean of all samples
func (s *Series) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance of all samples
func (s *Series) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.Sum2 - float64(s.N)*mean*mean) / float64(s.N-1)
	if v < 0 {
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation
func (s *Series) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Series) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Series) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median sample
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Series) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Max returns the largest sample
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	return sorted[len(sorted)-1]
}

func (s *Series) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// SeatStats tracks the results of one seat across games
type SeatStats struct {
	Score Series
	Wins  int // games won outright
	Ties  int // games shared at the top
}

// WinRate returns the fraction of games won outright
func (s *SeatStats) WinRate() float64 {
	if s.Score.N == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Score.N)
}

// Statistics tracks comprehensive simulation statistics
type Statistics struct {
	Games     int
	Seats     []SeatStats
	Rounds    Series // rounds completed per scored game
	Margin    Series // winner's lead over the runner-up
	Exhausted int    // games that ran out of cards
	TimedOut  int    // games abandoned by the watchdog
}

// New creates statistics for the given number of seats
func New(seats int) *Statistics {
	return &Statistics{Seats: make([]SeatStats, seats)}
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	s.Games++
	if result.TimedOut {
		s.TimedOut++
		return
	}
	s.Rounds.Add(float64(result.Rounds))
	if result.Exhausted {
		s.Exhausted++
	}
	for len(s.Seats) < len(result.Scores) {
		s.Seats = append(s.Seats, SeatStats{})
	}

	best, second, leaders := topTwo(result.Scores)
	for seat, score := range result.Scores {
		st := &s.Seats[seat]
		st.Score.Add(float64(score))
		if score == best {
			if leaders == 1 {
				st.Wins++
			} else {
				st.Ties++
			}
		}
	}
	if len(result.Scores) > 1 {
		s.Margin.Add(float64(best - second))
	}
}

// topTwo returns the best score, the best score of the others and how many
// seats share the best score
func topTwo(scores []int) (best, second, leaders int) {
	if len(scores) == 0 {
		return 0, 0, 0
	}
	sorted := append([]int(nil), scores...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	best = sorted[0]
	for _, v := range sorted {
		if v == best {
			leaders++
		}
	}
	if len(sorted) > 1 {
		second = sorted[1]
	}
	return best, second, leaders
}

// Validate performs consistency checks on the statistics data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	scored := s.Games - s.TimedOut
	if s.Rounds.N != scored {
		return fmt.Errorf("rounds samples (%d) do not match scored games (%d)", s.Rounds.N, scored)
	}

	outright := 0
	for seat := range s.Seats {
		st := &s.Seats[seat]
		if st.Score.N != scored {
			return fmt.Errorf("seat %d has %d scores, expected %d", seat, st.Score.N, scored)
		}
		if len(st.Score.Values) != st.Score.N {
			return fmt.Errorf("seat %d values length (%d) does not match count (%d)",
				seat, len(st.Score.Values), st.Score.N)
		}
		outright += st.Wins
	}
	if outright > scored {
		return fmt.Errorf("outright wins (%d) exceed scored games (%d)", outright, scored)
	}

	return nil
}
