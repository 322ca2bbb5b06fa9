package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultDurationMinutes = 180
	DefaultCorrectMarks    = 4
	DefaultWrongPenalty    = 1
	DefaultSection         = "General"
	DemoPaperID            = "demo"
)

// Paper is the complete exam definition: questions, key, timing and scheme.
type Paper struct {
	ID            string         `json:"id"`
	Subject       string         `json:"subject"`
	ExamName      string         `json:"examName"`
	Year          FlexString     `json:"year"`
	Duration      int            `json:"duration"` // minutes
	Questions     []Question     `json:"questions"`
	AnswerKey     AnswerKey      `json:"answerKey"`
	MarkingScheme *MarkingScheme `json:"markingScheme,omitempty"`
}

// Question is a single item of a paper. An empty Options map marks a
// numerical or diagram question.
type Question struct {
	Number      int               `json:"number"`
	SeqNumber   int               `json:"seqNumber"`
	Text        string            `json:"text"`
	Options     map[string]string `json:"options"`
	Section     string            `json:"section"`
	IsNumerical bool              `json:"isNumerical"`
}

// MarkingScheme holds the point values used when scoring.
type MarkingScheme struct {
	Correct float64 `json:"correct"`
	Wrong   float64 `json:"wrong"`
	Skipped float64 `json:"skipped"` // carried for completeness, never applied
	Total   float64 `json:"total"`
}

// AnswerKey maps a question identifier to the correct value. Stored papers
// use either strings or bare numbers for values; both decode to strings.
type AnswerKey map[string]string

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*k = nil
		return nil
	}
	raw := map[string]FlexString{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("answer key: %w", err)
	}
	out := make(AnswerKey, len(raw))
	for id, v := range raw {
		out[id] = string(v)
	}
	*k = out
	return nil
}

// FlexString decodes from a JSON string or a JSON number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// FlexInt decodes from a JSON number or a numeric JSON string. null and ""
// decode to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*f = 0
		return nil
	}
	var text string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*f = 0
			return nil
		}
	} else {
		text = string(raw)
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("expected an integer, got %s", string(data))
	}
	*f = FlexInt(int(n))
	return nil
}

// UnmarshalJSON accepts number and seqNumber as numbers or numeric strings.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	aux := struct {
		*plain
		Number    FlexInt `json:"number"`
		SeqNumber FlexInt `json:"seqNumber"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	q.Number = int(aux.Number)
	q.SeqNumber = int(aux.SeqNumber)
	return nil
}

// UnmarshalJSON accepts duration as a number or a numeric string.
func (p *Paper) UnmarshalJSON(data []byte) error {
	type plain Paper
	aux := struct {
		*plain
		Duration FlexInt `json:"duration"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Duration = int(aux.Duration)
	return nil
}

// IsNumericalType reports whether the question takes a free-form value.
func (q Question) IsNumericalType() bool {
	return q.IsNumerical || len(q.Options) == 0
}

// IsDiagram reports a question with no options that is not flagged numerical.
func (q Question) IsDiagram() bool {
	return !q.IsNumerical && len(q.Options) == 0
}

// SectionLabel returns the section name, defaulting to General.
func (q Question) SectionLabel() string {
	if q.Section == "" {
		return DefaultSection
	}
	return q.Section
}

// OptionLetters returns the option letters in display order.
func (q Question) OptionLetters() []string {
	letters := make([]string, 0, len(q.Options))
	for l := range q.Options {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// DurationSeconds is the configured duration, falling back to the default.
func (p *Paper) DurationSeconds() int {
	if p.Duration <= 0 {
		return DefaultDurationMinutes * 60
	}
	return p.Duration * 60
}

// Scheme returns the paper's marking scheme or the default one.
func (p *Paper) Scheme() MarkingScheme {
	if p.MarkingScheme != nil {
		return *p.MarkingScheme
	}
	return MarkingScheme{
		Correct: DefaultCorrectMarks,
		Wrong:   DefaultWrongPenalty,
		Skipped: 0,
		Total:   float64(len(p.Questions) * DefaultCorrectMarks),
	}
}

// IsDemo reports whether this is the synthesized fallback paper.
func (p *Paper) IsDemo() bool {
	return p.ID == DemoPaperID
}

// HasQuestions reports whether the paper can be used for a session.
func (p *Paper) HasQuestions() bool {
	return p != nil && len(p.Questions) > 0
}

// CorrectAnswer looks up the key by question number, then sequence number,
// then 1-based position. Empty key values are ignored.
func (k AnswerKey) CorrectAnswer(q Question, index int) (string, bool) {
	for _, id := range []int{q.Number, q.SeqNumber, index + 1} {
		if v, ok := k[strconv.Itoa(id)]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}
