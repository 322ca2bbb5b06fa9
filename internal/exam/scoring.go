package exam

import (
	"math"
	"strings"

	"exam-byte/internal/domain"
)

// ReviewStatus classifies one question after submission.
type ReviewStatus string

const (
	ReviewCorrect ReviewStatus = "correct"
	ReviewWrong   ReviewStatus = "wrong"
	ReviewSkipped ReviewStatus = "skipped"
	ReviewUnkeyed ReviewStatus = "unkeyed"
)

// ReviewItem is one row of the answer review.
type ReviewItem struct {
	Index  int
	Text   string
	Yours  string
	Key    string
	Status ReviewStatus
}

// Result is the outcome of scoring a submitted session.
type Result struct {
	Correct        int
	Wrong          int
	Skipped        int
	Answered       int
	TotalQuestions int
	Marks          float64
	TotalMarks     float64
	HasKey         bool
	Percent        int
	Verdict        string
	Review         []ReviewItem
}

// Score computes the result over answers. It does not mutate its inputs and
// is safe to call repeatedly.
func Score(questions []domain.Question, answers map[int]string, key domain.AnswerKey, scheme domain.MarkingScheme) Result {
	res := Result{
		TotalQuestions: len(questions),
		TotalMarks:     scheme.Total,
		HasKey:         len(key) > 0,
		Answered:       AnsweredCount(answers),
		Review:         make([]ReviewItem, 0, len(questions)),
	}

	var marks float64
	for i, q := range questions {
		ua, answered := answers[i]
		answered = answered && ua != ""
		ca, keyed := key.CorrectAnswer(q, i)

		item := ReviewItem{Index: i, Text: q.Text, Yours: ua, Key: ca}
		switch {
		case !answered:
			res.Skipped++
			item.Status = ReviewSkipped
		case !keyed:
			item.Status = ReviewUnkeyed
		case strings.TrimSpace(ua) == strings.TrimSpace(ca):
			res.Correct++
			marks += scheme.Correct
			item.Status = ReviewCorrect
		default:
			res.Wrong++
			marks -= scheme.Wrong
			item.Status = ReviewWrong
		}
		res.Review = append(res.Review, item)
	}

	res.Marks = math.Max(0, marks)
	if res.HasKey && res.TotalMarks > 0 {
		res.Percent = int(math.Round(res.Marks / res.TotalMarks * 100))
	}
	res.Verdict = verdict(res.HasKey, res.Percent)
	return res
}

func verdict(hasKey bool, pct int) string {
	if !hasKey {
		return "Submitted!"
	}
	switch {
	case pct >= 75:
		return "Excellent!"
	case pct >= 50:
		return "Good Job!"
	case pct >= 35:
		return "Keep Practising!"
	default:
		return "Don't Give Up!"
	}
}
