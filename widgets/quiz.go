// Package widgets implements the guide's interactive elements: quiz grading,
// the temperature demo and the API cost estimator.
package widgets

import "github.com/LianHaeming/llmguide/content"

// Verdict is the outcome of one quiz question.
type Verdict struct {
	Answered bool
	Correct  bool
	Message  string
}

// Grade checks a chosen option against the question's answer. An empty
// choice or one that isn't among the options counts as unanswered.
func Grade(q content.Question, choice string) Verdict {
	if choice == "" || !isOption(q, choice) {
		return Verdict{}
	}
	if choice == q.Answer {
		return Verdict{Answered: true, Correct: true, Message: q.Correct}
	}
	return Verdict{Answered: true, Message: q.Incorrect}
}

// Score counts correct answers across a quiz.
func Score(quiz []content.Question, choices []string) (correct, answered int) {
	for i, q := range quiz {
		if i >= len(choices) {
			break
		}
		v := Grade(q, choices[i])
		if v.Answered {
			answered++
		}
		if v.Correct {
			correct++
		}
	}
	return correct, answered
}

func isOption(q content.Question, choice string) bool {
	for _, o := range q.Options {
		if o == choice {
			return true
		}
	}
	return false
}
