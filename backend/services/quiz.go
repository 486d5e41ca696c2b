package services

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

// Question is the unit the quiz generator produces. The JSON field names are
// the wire format the frontend consumes and must not change.
type Question struct {
	ID      int      `json:"id"`
	Type    string   `json:"turi"` // mcq, tf, short
	Text    string   `json:"savol"`
	Options []string `json:"variantlar,omitempty"`
	Answer  string   `json:"togri_javob"`
}

var sentenceSplit = regexp.MustCompile(`[.!?]\s+`)

var fakePrefixes = []string{"anti", "sub", "pre", "post"}

// GenerateQuiz derives a fixed 10-question assessment from a reading log's
// summary plus the book title and author: 5 fill-in-the-blank multiple
// choice, 3 true/false, 2 short answer. Pure string heuristics, no NLP.
// It never fails: an unusable summary degrades to synthetic sentences.
func GenerateQuiz(summary, title, author string) []Question {
	fromSummary := splitSentences(summary)
	sentences := fromSummary
	if len(sentences) == 0 {
		sentences = []string{
			fmt.Sprintf("%s kitobini %s yozgan", title, author),
			fmt.Sprintf("%s asari o'quvchiga katta taassurot qoldiradi", title),
			fmt.Sprintf("%s o'z davrining muhim asarlaridan biri", title),
		}
	}

	questions := make([]Question, 0, 10)

	for i := 0; i < 5; i++ {
		sentence := sentences[i%len(sentences)]
		questions = append(questions, blankQuestion(i+1, sentence, title))
	}

	for i := 0; i < 3; i++ {
		sentence := sentences[(i+5)%len(sentences)]
		questions = append(questions, trueFalseQuestion(i+6, sentence))
	}

	questions = append(questions, Question{
		ID:     9,
		Type:   "short",
		Text:   "Kitob muallifi kim?",
		Answer: author,
	})

	mainIdea := firstRunes(summary, 100)
	if len(fromSummary) > 0 {
		mainIdea = fromSummary[len(fromSummary)-1]
	}
	questions = append(questions, Question{
		ID:     10,
		Type:   "short",
		Text:   "Kitobning asosiy g'oyasi nima?",
		Answer: mainIdea,
	})

	return questions
}

func splitSentences(text string) []string {
	var sentences []string
	for _, part := range sentenceSplit.Split(text, -1) {
		part = strings.TrimSpace(strings.Trim(part, ".!?"))
		if len([]rune(part)) >= 10 {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// blankQuestion blanks out one random long-enough word of the sentence and
// offers it among four options.
func blankQuestion(id int, sentence, title string) Question {
	words := eligibleWords(sentence)
	if len(words) == 0 {
		words = strings.Fields(sentence)
	}
	if len(words) == 0 {
		words = []string{title}
	}

	key := words[rand.Intn(len(words))]
	text := strings.Replace(sentence, key, "_____", 1)

	options := []string{key, words[0], words[len(words)-1], fakeWord(key)}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		ID:      id,
		Type:    "mcq",
		Text:    "Bo'sh joyni to'ldiring: " + text,
		Options: options,
		Answer:  key,
	}
}

// trueFalseQuestion presents the sentence either verbatim or with one
// interior word swapped for its neighbor.
func trueFalseQuestion(id int, sentence string) Question {
	statement := sentence
	answer := "to'g'ri"

	if rand.Intn(2) == 1 {
		answer = "noto'g'ri"
		words := strings.Fields(sentence)
		if len(words) >= 3 {
			idx := 1 + rand.Intn(len(words)-2)
			replacement := "boshqa"
			if idx+1 < len(words) {
				replacement = words[idx+1]
			}
			words[idx] = replacement
			statement = strings.Join(words, " ")
		} else {
			statement = sentence + " boshqa"
		}
	}

	return Question{
		ID:     id,
		Type:   "tf",
		Text:   "Quyidagi fikr to'g'rimi? " + statement,
		Answer: answer,
	}
}

func eligibleWords(sentence string) []string {
	var words []string
	for _, word := range strings.Fields(sentence) {
		if len([]rune(word)) > 3 {
			words = append(words, word)
		}
	}
	return words
}

func fakeWord(key string) string {
	prefix := fakePrefixes[rand.Intn(len(fakePrefixes))]
	return prefix + firstRunes(key, 4)
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
