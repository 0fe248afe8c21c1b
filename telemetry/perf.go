package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the session step. These match the systems registry IDs.
const (
	PhaseClock     = "clock"
	PhaseSweep     = "sweep"
	PhaseHunger    = "hunger"
	PhaseCaretaker = "caretaker"
	PhaseBehavior  = "behavior"
	PhaseSpeech    = "speech"
	PhaseTelemetry = "telemetry"
	PhaseNotices   = "notices"
)

// Phases lists the step phases in tick order.
var Phases = []string{
	PhaseClock, PhaseSweep, PhaseHunger, PhaseCaretaker,
	PhaseBehavior, PhaseSpeech, PhaseTelemetry, PhaseNotices,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector keeps a ring of the most recent tick timings.
type PerfCollector struct {
	ring   []PerfSample
	next   int
	filled int

	// In-progress tick
	phases     map[string]time.Duration
	tickStart  time.Time
	phase      string
	phaseStart time.Time

	// Frame timing (graphical mode)
	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// Values below 1 fall back to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:   make([]PerfSample, windowSize),
		phases: make(map[string]time.Duration),
		now:    time.Now,
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.phases = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens the named one.
func (p *PerfCollector) StartPhase(phase string) {
	t := p.closePhase()
	p.phase = phase
	p.phaseStart = t
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	t := p.closePhase()
	p.phase = ""

	p.ring[p.next] = PerfSample{
		TickDuration: t.Sub(p.tickStart),
		Phases:       p.phases,
	}
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

func (p *PerfCollector) closePhase() time.Time {
	t := p.now()
	if p.phase != "" {
		p.phases[p.phase] += t.Sub(p.phaseStart)
	}
	return t
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	t := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = t.Sub(p.lastFrame)
	}
	p.lastFrame = t
}

// Reset drops every stored sample.
func (p *PerfCollector) Reset() {
	for i := range p.ring {
		p.ring[i] = PerfSample{}
	}
	p.next, p.filled = 0, 0
	p.phase = ""
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return out
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, s := range p.ring[:p.filled] {
		total += s.TickDuration
		if i == 0 || s.TickDuration < out.MinTickDuration {
			out.MinTickDuration = s.TickDuration
		}
		if s.TickDuration > out.MaxTickDuration {
			out.MaxTickDuration = s.TickDuration
		}
		for phase, d := range s.Phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.filled)
	out.AvgTickDuration = total / n
	for phase, sum := range sums {
		avg := sum / n
		out.PhaseAvg[phase] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[phase] = float64(avg) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Session      string  `csv:"session"`
	WindowEnd    uint64  `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	ClockPct     float64 `csv:"clock_pct"`
	SweepPct     float64 `csv:"sweep_pct"`
	HungerPct    float64 `csv:"hunger_pct"`
	CaretakerPct float64 `csv:"caretaker_pct"`
	BehaviorPct  float64 `csv:"behavior_pct"`
	SpeechPct    float64 `csv:"speech_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	NoticesPct   float64 `csv:"notices_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(sessionID string, windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		Session:      sessionID,
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		ClockPct:     s.PhasePct[PhaseClock],
		SweepPct:     s.PhasePct[PhaseSweep],
		HungerPct:    s.PhasePct[PhaseHunger],
		CaretakerPct: s.PhasePct[PhaseCaretaker],
		BehaviorPct:  s.PhasePct[PhaseBehavior],
		SpeechPct:    s.PhasePct[PhaseSpeech],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
		NoticesPct:   s.PhasePct[PhaseNotices],
	}
}
