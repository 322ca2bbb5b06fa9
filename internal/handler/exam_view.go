package handler

import (
	"fmt"
	"strconv"

	"exam-byte/internal/domain"
	"exam-byte/internal/dto"
	"exam-byte/internal/exam"
)

const (
	kindSingleCorrect = "single_correct"
	kindNumerical     = "numerical"
	kindDiagram       = "diagram"
)

func questionKind(q domain.Question) string {
	switch {
	case q.IsDiagram():
		return kindDiagram
	case q.IsNumericalType():
		return kindNumerical
	default:
		return kindSingleCorrect
	}
}

// toSessionView renders a snapshot for the client.
func toSessionView(snap exam.Snapshot) dto.SessionView {
	p := snap.Paper
	view := dto.SessionView{
		ID:    snap.ID,
		Phase: string(snap.Phase),
		Paper: dto.PaperHeader{
			ID:              p.ID,
			Subject:         p.Subject,
			ExamName:        p.ExamName,
			Year:            string(p.Year),
			DurationMinutes: p.DurationSeconds() / 60,
			TotalQuestions:  snap.Total,
			IsDemo:          p.IsDemo(),
		},
		Current:          snap.Current,
		Palette:          make([]dto.PaletteGroupView, 0, len(snap.Groups)),
		Stats:            dto.StatsView{Done: snap.Stats.Done, Seen: snap.Stats.Seen, Left: snap.Stats.Left},
		AnsweredCount:    snap.AnsweredCount,
		RemainingSeconds: snap.Remaining,
		Clock:            snap.Clock,
		Urgent:           snap.Urgent,
		ConfirmOpen:      snap.ConfirmOpen,
		SidebarOpen:      snap.SidebarOpen,
		NoQuestions:      snap.NoQuestions,
		StartedAt:        snap.StartedAt,
		SubmitReason:     string(snap.Reason),
	}
	if !snap.SubmittedAt.IsZero() {
		at := snap.SubmittedAt
		view.SubmittedAt = &at
	}

	for _, g := range snap.Groups {
		group := dto.PaletteGroupView{Key: g.Key, Label: g.Label, Items: make([]dto.PaletteItemView, 0, len(g.Indices))}
		for _, i := range g.Indices {
			group.Items = append(group.Items, dto.PaletteItemView{
				Index:   i,
				Label:   strconv.Itoa(i + 1),
				State:   string(snap.States[i]),
				Current: i == snap.Current,
			})
		}
		view.Palette = append(view.Palette, group)
	}

	if snap.Total > 0 {
		q := p.Questions[snap.Current]
		qv := &dto.QuestionView{
			Index:     snap.Current,
			Position:  fmt.Sprintf("Q %d / %d", snap.Current+1, snap.Total),
			Number:    q.Number,
			SeqNumber: q.SeqNumber,
			Text:      q.Text,
			Section:   q.SectionLabel(),
			Kind:      questionKind(q),
			Answer:    snap.Answers[snap.Current],
			IsFirst:   snap.Current == 0,
			IsLast:    snap.Current == snap.Total-1,
		}
		if qv.Kind == kindSingleCorrect {
			for _, letter := range q.OptionLetters() {
				qv.Options = append(qv.Options, dto.OptionView{Letter: letter, Text: q.Options[letter]})
			}
		}
		view.Question = qv
	}
	return view
}

func toResultResponse(res exam.Result) dto.ResultResponse {
	out := dto.ResultResponse{
		Correct:        res.Correct,
		Wrong:          res.Wrong,
		Skipped:        res.Skipped,
		Answered:       res.Answered,
		TotalQuestions: res.TotalQuestions,
		Marks:          res.Marks,
		TotalMarks:     res.TotalMarks,
		HasKey:         res.HasKey,
		Verdict:        res.Verdict,
		Review:         make([]dto.ReviewItemView, 0, len(res.Review)),
	}
	if res.HasKey {
		pct := res.Percent
		out.Percent = &pct
		out.Headline = fmt.Sprintf("%s / %s marks", formatMarks(res.Marks), formatMarks(res.TotalMarks))
	} else {
		out.Headline = fmt.Sprintf("%d answered", res.Answered)
	}
	for _, r := range res.Review {
		out.Review = append(out.Review, dto.ReviewItemView{
			Index:  r.Index,
			Text:   r.Text,
			Yours:  r.Yours,
			Key:    r.Key,
			Status: string(r.Status),
		})
	}
	return out
}

func formatMarks(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toAttemptResponse(a *domain.Attempt) dto.AttemptResponse {
	return dto.AttemptResponse{
		ID:          a.ID,
		SessionID:   a.SessionID,
		Correct:     a.Correct,
		Wrong:       a.Wrong,
		Skipped:     a.Skipped,
		Answered:    a.Answered,
		Marks:       a.Marks,
		TotalMarks:  a.TotalMarks,
		Reason:      string(a.Reason),
		StartedAt:   a.StartedAt,
		SubmittedAt: a.SubmittedAt,
	}
}
