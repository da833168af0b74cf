package simulator

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/faraway/internal/fileutil"
	"github.com/lox/faraway/internal/statistics"
)

// SeatReport summarises one seat of a simulation
type SeatReport struct {
	Seat     int     `json:"seat"`
	Strategy string  `json:"strategy"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"stddev"`
	StdError float64 `json:"stderr"`
	CI95Low  float64 `json:"ci95_low"`
	CI95High float64 `json:"ci95_high"`
	P05      float64 `json:"p05"`
	P95      float64 `json:"p95"`
	Best     float64 `json:"best"`
	Wins     int     `json:"wins"`
	Ties     int     `json:"ties"`
	WinRate  float64 `json:"win_rate"`
}

// Report is the serialisable result of a simulation run
type Report struct {
	Games      int           `json:"games"`
	Players    int           `json:"players"`
	Copies     int           `json:"copies"`
	Seed       int64         `json:"seed"`
	MaxRounds  int           `json:"max_rounds"`
	Lineup     string        `json:"lineup"`
	Duration   time.Duration `json:"duration_ns"`
	MeanRounds float64       `json:"mean_rounds"`
	MeanMargin float64       `json:"mean_margin"`
	Exhausted  int           `json:"exhausted"`
	TimedOut   int           `json:"timed_out"`
	Seats      []SeatReport  `json:"seats"`
}

// NewReport builds a report from the statistics of the last Run
func (s *Simulator) NewReport(stats *statistics.Statistics) Report {
	r := Report{
		Games:      stats.Games,
		Players:    s.config.Players,
		Copies:     s.config.Copies,
		Seed:       s.config.Seed,
		MaxRounds:  s.config.MaxRounds,
		Lineup:     s.Lineup(),
		Duration:   s.elapsed,
		MeanRounds: stats.Rounds.Mean(),
		MeanMargin: stats.Margin.Mean(),
		Exhausted:  stats.Exhausted,
		TimedOut:   stats.TimedOut,
		Seats:      make([]SeatReport, len(stats.Seats)),
	}
	for seat := range stats.Seats {
		st := &stats.Seats[seat]
		low, high := st.Score.ConfidenceInterval95()
		r.Seats[seat] = SeatReport{
			Seat:     seat,
			Strategy: s.SeatStrategy(seat),
			Mean:     st.Score.Mean(),
			Median:   st.Score.Median(),
			StdDev:   st.Score.StdDev(),
			StdError: st.Score.StdError(),
			CI95Low:  low,
			CI95High: high,
			P05:      st.Score.Percentile(0.05),
			P95:      st.Score.Percentile(0.95),
			Best:     st.Score.Max(),
			Wins:     st.Wins,
			Ties:     st.Ties,
			WinRate:  st.WinRate(),
		}
	}
	return r
}

// WriteFile writes the report as JSON to path
func (r Report) WriteFile(path string) error {
	return fileutil.WriteJSONAtomic(path, r, 0o644)
}

// PrintSummary prints a plain text summary of the report
func PrintSummary(w io.Writer, r Report) {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "\n=== RESULTS: %s ===\n", r.Lineup)
	fmt.Fprintf(w, "Games played: %d (%d players, %d catalog copies, seed %d)\n", r.Games, r.Players, r.Copies, r.Seed)
	if r.Duration > 0 && r.Games > 0 {
		perGame := r.Duration / time.Duration(r.Games)
		fmt.Fprintf(w, "Total time: %v (%v/game)\n", r.Duration.Round(time.Millisecond), perGame)
	}
	fmt.Fprintf(w, "Rounds per game: %.2f, winning margin: %.2f\n", r.MeanRounds, r.MeanMargin)
	if r.Exhausted > 0 {
		fmt.Fprintf(w, "Deck exhausted: %d games\n", r.Exhausted)
	}
	if r.TimedOut > 0 {
		fmt.Fprintf(w, "Timed out: %d games\n", r.TimedOut)
	}

	fmt.Fprintf(w, "\n=== SEATS ===\n")
	for _, seat := range r.Seats {
		fmt.Fprintf(w, "Seat %d (%s): mean %.2f, median %.1f, sd %.2f, 95%% CI [%.2f, %.2f], P5=%.1f P95=%.1f, best %.0f\n",
			seat.Seat+1, seat.Strategy, seat.Mean, seat.Median, seat.StdDev,
			seat.CI95Low, seat.CI95High, seat.P05, seat.P95, seat.Best)
		fmt.Fprintf(w, "        wins %d (%.1f%%), ties %d\n", seat.Wins, seat.WinRate*100, seat.Ties)
	}
}
