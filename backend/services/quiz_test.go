package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSummary = "Otabek savdogar oilasida tug'ilgan edi. U Toshkentga safar qilganda Kumushbibini uchratdi. " +
	"Ikki yosh bir-birini sevib qoldi va oilalar o'rtasida kelishuv boshlandi. " +
	"Roman o'sha davr urf-odatlarini juda aniq tasvirlaydi! " +
	"Asar qahramonlari taqdiri o'quvchini befarq qoldirmaydi. " +
	"Yozuvchi milliy qadriyatlarni asarning markaziga qo'yadi."

func TestGenerateQuizShape(t *testing.T) {
	questions := GenerateQuiz(sampleSummary, "O'tkan kunlar", "Abdulla Qodiriy")
	require.Len(t, questions, 10)

	counts := map[string]int{}
	for i, q := range questions {
		counts[q.Type]++
		assert.Equal(t, i+1, q.ID)
		assert.NotEmpty(t, q.Text)
	}
	assert.Equal(t, 5, counts["mcq"])
	assert.Equal(t, 3, counts["tf"])
	assert.Equal(t, 2, counts["short"])
}

func TestGenerateQuizMultipleChoice(t *testing.T) {
	questions := GenerateQuiz(sampleSummary, "O'tkan kunlar", "Abdulla Qodiriy")

	for _, q := range questions[:5] {
		require.Equal(t, "mcq", q.Type)
		require.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.Answer)
		assert.Contains(t, q.Text, "_____")
	}
}

func TestGenerateQuizTrueFalse(t *testing.T) {
	questions := GenerateQuiz(sampleSummary, "O'tkan kunlar", "Abdulla Qodiriy")

	for _, q := range questions[5:8] {
		require.Equal(t, "tf", q.Type)
		assert.Empty(t, q.Options)
		assert.Contains(t, []string{"to'g'ri", "noto'g'ri"}, q.Answer)
	}
}

func TestGenerateQuizShortAnswers(t *testing.T) {
	questions := GenerateQuiz(sampleSummary, "O'tkan kunlar", "Abdulla Qodiriy")

	author := questions[8]
	assert.Equal(t, "short", author.Type)
	assert.Equal(t, "Abdulla Qodiriy", author.Answer)

	mainIdea := questions[9]
	assert.Equal(t, "short", mainIdea.Type)
	// last sentence of the split list
	assert.True(t, strings.HasPrefix(mainIdea.Answer, "Yozuvchi milliy"))
}

func TestGenerateQuizFallback(t *testing.T) {
	// too short to yield a single sentence
	questions := GenerateQuiz("abc.", "Mehrobdan chayon", "Abdulla Qodiriy")
	require.Len(t, questions, 10)

	for _, q := range questions[:5] {
		require.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.Answer)
	}

	// main idea falls back to the raw summary
	assert.Equal(t, "abc.", questions[9].Answer)
}

func TestSplitSentencesLengthFilter(t *testing.T) {
	// 10 characters is long enough; the cutoff counts runes, so a fragment
	// of 9 Uzbek letters is dropped even when its byte length reaches 10
	sentences := splitSentences("abcdefghij. oʻn kitob. bu yetarlicha uzun gap.")
	assert.Equal(t, []string{"abcdefghij", "bu yetarlicha uzun gap"}, sentences)
}

func TestGenerateQuizEmptySummary(t *testing.T) {
	questions := GenerateQuiz("", "Mehrobdan chayon", "Abdulla Qodiriy")
	require.Len(t, questions, 10)
	assert.Equal(t, "Abdulla Qodiriy", questions[8].Answer)
}

func strPtr(s string) *string { return &s }

func TestScoreQuiz(t *testing.T) {
	questions := []Question{
		{ID: 1, Type: "mcq", Answer: "kitob"},
		{ID: 2, Type: "tf", Answer: "to'g'ri"},
		{ID: 3, Type: "short", Answer: "Alisher Navoiy"},
		{ID: 4, Type: "mcq", Answer: "daraxt"},
	}

	t.Run("case-insensitive mcq, lenient short", func(t *testing.T) {
		score := ScoreQuiz(questions, []*string{
			strPtr("KITOB"),
			strPtr("To'g'ri"),
			strPtr("Navoiy"), // substring of the stored answer
			strPtr("o'simlik"),
		})
		assert.Equal(t, 3, score.Correct)
		assert.Equal(t, 4, score.Total)
		assert.Equal(t, 75, score.Percent)
	})

	t.Run("short containment works both directions", func(t *testing.T) {
		score := ScoreQuiz(questions[2:3], []*string{strPtr("buyuk shoir Alisher Navoiy edi")})
		assert.Equal(t, 100, score.Percent)
	})

	t.Run("missing answers are wrong", func(t *testing.T) {
		score := ScoreQuiz(questions, []*string{nil, strPtr("to'g'ri")})
		assert.Equal(t, 1, score.Correct)
		assert.Equal(t, 25, score.Percent)
	})

	t.Run("empty short answer is wrong", func(t *testing.T) {
		score := ScoreQuiz(questions[2:3], []*string{strPtr("  ")})
		assert.Equal(t, 0, score.Correct)
	})

	t.Run("no questions scores zero", func(t *testing.T) {
		score := ScoreQuiz(nil, nil)
		assert.Equal(t, 0, score.Percent)
	})

	t.Run("all correct", func(t *testing.T) {
		score := ScoreQuiz(questions, []*string{
			strPtr("kitob"), strPtr("to'g'ri"), strPtr("Alisher Navoiy"), strPtr("daraxt"),
		})
		assert.Equal(t, 100, score.Percent)
	})
}
