package paper

import (
	"fmt"

	"exam-byte/internal/domain"
)

var demoSubjects = []string{"Mathematics", "Physics", "Chemistry"}

const (
	demoSingleChoicePerSubject = 20
	demoNumericalPerSubject    = 5
)

// DemoPaper builds the fixed fallback paper: three subjects, each with 20
// single-choice then 5 numerical questions, and a key for the first six.
func DemoPaper() *domain.Paper {
	questions := make([]domain.Question, 0, len(demoSubjects)*(demoSingleChoicePerSubject+demoNumericalPerSubject))
	id := 1
	for _, subject := range demoSubjects {
		for i := 0; i < demoSingleChoicePerSubject; i++ {
			questions = append(questions, domain.Question{
				Number:    id,
				SeqNumber: id,
				Text:      fmt.Sprintf("%s Q%d: A particle of mass m moves in a circle of radius r at speed v. The centripetal acceleration is", subject, id),
				Options:   map[string]string{"A": "v²/r", "B": "v/r²", "C": "vr", "D": "r/v²"},
				Section:   subject,
			})
			id++
		}
		for i := 0; i < demoNumericalPerSubject; i++ {
			questions = append(questions, domain.Question{
				Number:      id,
				SeqNumber:   id,
				Text:        fmt.Sprintf("%s Numerical Q%d: The value of sin²(30°) + cos²(30°) equals", subject, id),
				Options:     map[string]string{},
				Section:     subject,
				IsNumerical: true,
			})
			id++
		}
	}

	return &domain.Paper{
		ID:        domain.DemoPaperID,
		Subject:   "JEE Main",
		ExamName:  "Mock Test",
		Year:      "2025",
		Duration:  domain.DefaultDurationMinutes,
		Questions: questions,
		AnswerKey: domain.AnswerKey{"1": "A", "2": "A", "3": "A", "4": "A", "5": "A", "6": "A"},
		MarkingScheme: &domain.MarkingScheme{
			Correct: domain.DefaultCorrectMarks,
			Wrong:   domain.DefaultWrongPenalty,
			Skipped: 0,
			Total:   float64(len(questions) * domain.DefaultCorrectMarks),
		},
	}
}
