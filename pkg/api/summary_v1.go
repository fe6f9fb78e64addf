package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EnsembleV1 is one node of a block's partition tree.
type EnsembleV1 struct {
	TargetSetSize *int        `json:"targetSetSize,omitempty"`
	Ignored       bool        `json:"ignored,omitempty"`
	Sampled       *EnsembleV1 `json:"sampled,omitempty"`
	NotSampled    *EnsembleV1 `json:"notSampled,omitempty"`
}

// BlockV1 is one block id with its partition tree.
type BlockV1 struct {
	ID       string
	Ensemble EnsembleV1
}

// TickV1 is one tick id with its blocks in first-seen order.
type TickV1 struct {
	ID     string
	Blocks []BlockV1
}

// SummaryV1 is the log summary document: {tickId: {blockId: EnsembleV1}}.
// Tick and block keys keep their order in both directions.
type SummaryV1 []TickV1

// MarshalJSON writes s as a JSON object keyed by tick id.
func (s SummaryV1) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tk := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, tk.ID); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, bl := range tk.Blocks {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, bl.ID); err != nil {
				return nil, err
			}
			if err := writeValue(&buf, bl.Ensemble); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keyed by tick id, keeping key order.
func (s *SummaryV1) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	out := SummaryV1{}
	err := eachKey(dec, func(tickID string) error {
		tk := TickV1{ID: tickID}
		err := eachKey(dec, func(blockID string) error {
			var e EnsembleV1
			if err := dec.Decode(&e); err != nil {
				return fmt.Errorf("tick %q block %q: %w", tickID, blockID, err)
			}
			tk.Blocks = append(tk.Blocks, BlockV1{ID: blockID, Ensemble: e})
			return nil
		})
		if err != nil {
			return err
		}
		out = append(out, tk)
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// Tick returns the tick with the given id.
func (s SummaryV1) Tick(id string) (TickV1, bool) {
	for _, tk := range s {
		if tk.ID == id {
			return tk, true
		}
	}
	return TickV1{}, false
}

// Block returns the ensemble of the given block id.
func (t TickV1) Block(id string) (EnsembleV1, bool) {
	for _, bl := range t.Blocks {
		if bl.ID == id {
			return bl.Ensemble, true
		}
	}
	return EnsembleV1{}, false
}

func writeKey(buf *bytes.Buffer, k string) error {
	if err := writeValue(buf, k); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

// writeValue appends v without HTML escaping. json.Marshal still escapes the
// result; ids such as "a<b" stay unescaped only for encoders with
// SetEscapeHTML(false), as used by jsonutil.EncodePretty.
func writeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode's trailing newline
	return nil
}

// eachKey walks one JSON object, calling fn with each key while dec sits on
// the matching value.
func eachKey(dec *json.Decoder, fn func(string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	_, err = dec.Token() // closing '}'
	return err
}
