// internal/logline/parse.go
package logline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Marker selects the lines worth classifying.
const Marker = "[info]"

// Keywords at token position keywordPos.
const (
	KeywordTick           = "Tick:"
	KeywordInitialization = "CInitialization:"
	KeywordIntervention   = "CIntervention:"
	KeywordActionEnsemble = "CActionEnsemble:"
	KeywordSampling       = "CSampling:"
)

// Fixed token offsets of the simulator's log grammar, e.g.
//
//	[2020-06-01 15:39:38.703324] [info] [1:0] CSampling: Sampled set size: '316698', Not sampled set size: '229658'
const (
	keywordPos      = 4
	tickIDPos       = 5
	initIDPos       = 7
	interventionPos = 6
	targetWordPos   = 5
	targetSizePos   = 8
	ignoredFlagPos  = 9
	sampledPos      = 8
	notSampledPos   = 13
)

// ErrMalformedLine marks a recognized line that lacks the tokens its keyword
// requires, or carries a count that is not an integer.
var ErrMalformedLine = errors.New("malformed log line")

const (
	idCutset = "\"'."
	// tickCutset drops the ';' that follows the tick number, so "Tick: 12;"
	// yields the key "12" rather than the "12;" older summaries carried.
	tickCutset  = "\"'.,;"
	countCutset = "\"'.,"
)

// Parse classifies a raw log line. Lines without the [info] marker are
// Irrelevant; [info] lines with an unknown keyword are Unrecognized. Both come
// back with a nil error.
func Parse(line string) (Event, error) {
	if !strings.Contains(line, Marker) {
		return Event{Kind: Irrelevant}, nil
	}
	return Classify(strings.Fields(line))
}

// Classify maps pre-split tokens to an Event.
func Classify(tok []string) (Event, error) {
	if len(tok) <= keywordPos {
		return Event{Kind: Unrecognized}, nil
	}
	kw := tok[keywordPos]

	switch kw {
	case KeywordTick:
		if err := need(tok, kw, tickIDPos); err != nil {
			return Event{}, err
		}
		return Event{Kind: TickStart, ID: strings.Trim(tok[tickIDPos], tickCutset)}, nil

	case KeywordInitialization:
		if err := need(tok, kw, initIDPos); err != nil {
			return Event{}, err
		}
		return Event{Kind: InitBlockStart, ID: StripID(tok[initIDPos])}, nil

	case KeywordIntervention:
		if err := need(tok, kw, interventionPos); err != nil {
			return Event{}, err
		}
		return Event{Kind: InterventionBlockStart, ID: StripID(tok[interventionPos])}, nil

	case KeywordActionEnsemble:
		if err := need(tok, kw, targetWordPos); err != nil {
			return Event{}, err
		}
		if tok[targetWordPos] != "Target" {
			return Event{Kind: Unrecognized}, nil
		}
		if err := need(tok, kw, targetSizePos); err != nil {
			return Event{}, err
		}
		size, err := count(tok, kw, targetSizePos)
		if err != nil {
			return Event{}, err
		}
		ignored := len(tok) > ignoredFlagPos && tok[ignoredFlagPos] == "ignored"
		return Event{Kind: ActionEnsembleTarget, TargetSetSize: size, Ignored: ignored}, nil

	case KeywordSampling:
		if err := need(tok, kw, notSampledPos); err != nil {
			return Event{}, err
		}
		s, err := count(tok, kw, sampledPos)
		if err != nil {
			return Event{}, err
		}
		ns, err := count(tok, kw, notSampledPos)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: SamplingCounts, Sampled: s, NotSampled: ns}, nil
	}
	return Event{Kind: Unrecognized}, nil
}

// StripID removes the quotes and trailing period the simulator wraps block
// ids in.
func StripID(s string) string { return strings.Trim(s, idCutset) }

func need(tok []string, kw string, pos int) error {
	if len(tok) > pos {
		return nil
	}
	return fmt.Errorf("%w: %s needs %d tokens, got %d", ErrMalformedLine, kw, pos+1, len(tok))
}

func count(tok []string, kw string, pos int) (int, error) {
	raw := strings.Trim(tok[pos], countCutset)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s token %d: %q is not a set size", ErrMalformedLine, kw, pos, tok[pos])
	}
	return n, nil
}
