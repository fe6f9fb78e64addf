// internal/logline/event.go
package logline

// Kind classifies a single log line.
type Kind int

const (
	Irrelevant   Kind = iota // no [info] marker
	Unrecognized             // [info] line with an unknown keyword
	TickStart
	InitBlockStart
	InterventionBlockStart
	ActionEnsembleTarget
	SamplingCounts
)

var kindNames = [...]string{
	Irrelevant:             "irrelevant",
	Unrecognized:           "unrecognized",
	TickStart:              "tick",
	InitBlockStart:         "initialization",
	InterventionBlockStart: "intervention",
	ActionEnsembleTarget:   "target",
	SamplingCounts:         "sampling",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Event is the classified form of one [info] line. Only the fields that
// belong to Kind are set.
type Event struct {
	Kind Kind

	// TickStart, InitBlockStart, InterventionBlockStart
	ID string

	// ActionEnsembleTarget
	TargetSetSize int
	Ignored       bool

	// SamplingCounts
	Sampled    int
	NotSampled int
}
