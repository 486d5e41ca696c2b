package services

import (
	"math"
	"strings"
)

// ScoreSummary is the outcome of grading one submission.
type ScoreSummary struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// ScoreQuiz grades a submitted answer slice against the quiz's canonical
// answers. Answers are positional; a nil entry (or a missing trailing one)
// always counts wrong. mcq/tf compare case-insensitively; short answers
// match by substring containment in either direction, to tolerate partial
// phrasing.
func ScoreQuiz(questions []Question, answers []*string) ScoreSummary {
	correct := 0
	for i, question := range questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if answerCorrect(question, *answers[i]) {
			correct++
		}
	}

	total := len(questions)
	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return ScoreSummary{Correct: correct, Total: total, Percent: percent}
}

func answerCorrect(question Question, answer string) bool {
	switch question.Type {
	case "short":
		submitted := strings.ToLower(strings.TrimSpace(answer))
		expected := strings.ToLower(strings.TrimSpace(question.Answer))
		if submitted == "" {
			return false
		}
		return strings.Contains(submitted, expected) || strings.Contains(expected, submitted)
	default:
		return strings.EqualFold(answer, question.Answer)
	}
}
