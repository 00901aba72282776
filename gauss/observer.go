package gauss

import "time"

// Observer receives advisory progress and timing reports. Reports never
// influence results.
type Observer interface {
	// Progress reports the number of pivot rows fixed so far by op.
	Progress(op string, rows int)

	// PhaseTime reports the total time op spent in phase.
	PhaseTime(op, phase string, d time.Duration)
}

type logObserver struct{}

func (logObserver) Progress(op string, rows int) {
	log.Debugf("%s: %d rows", op, rows)
}

func (logObserver) PhaseTime(op, phase string, d time.Duration) {
	log.Debugf("%s: %s took %s", op, phase, d)
}

type phase int

const (
	phasePivot phase = iota
	phasePermute
	phaseEliminate
	phaseReduce
	phaseMultiply
	numPhases
)

var phaseNames = [numPhases]string{"pivot", "permute", "eliminate", "reduce", "multiply"}

// stats accumulates phase times and row progress over one top-level call.
type stats struct {
	op      string
	obs     Observer
	step    int
	rows    int
	elapsed [numPhases]time.Duration
}

func (e *Eliminator) newStats(op string) *stats {
	return &stats{op: op, obs: e.observer, step: e.progressStep}
}

func (s *stats) since(p phase, t time.Time) {
	s.elapsed[p] += time.Since(t)
}

func (s *stats) row() {
	s.rows++
	if s.step > 0 && s.rows%s.step == 0 {
		s.obs.Progress(s.op, s.rows)
	}
}

func (s *stats) report() {
	for p, d := range s.elapsed {
		if d > 0 {
			s.obs.PhaseTime(s.op, phaseNames[p], d)
		}
	}
}
