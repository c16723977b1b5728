package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func opt(id string) *string { return &id }

func twoQuestions() []Question {
	return []Question{
		{ID: "q1", Type: QuestionTypeSingleChoice, Options: []Option{{ID: "a"}, {ID: "b"}}, CorrectOption: "a"},
		{ID: "q2", Type: QuestionTypeSingleChoice, Options: []Option{{ID: "a"}, {ID: "b"}}, CorrectOption: "b"},
	}
}

func TestScoreStandard(t *testing.T) {
	res := ScoreStandard(twoQuestions(), []Answer{
		{QuestionID: "q1", SelectedOptionID: opt("a")},
		{QuestionID: "q2", SelectedOptionID: opt("x")},
	})

	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, 2.0, res.Total)
	assert.Equal(t, 50.0, res.Percentage)
}

func TestScoreStandardEmptySubmission(t *testing.T) {
	res := ScoreStandard(twoQuestions(), []Answer{})

	assert.Equal(t, 0.0, res.Total)
	assert.Equal(t, 0.0, res.Percentage)
	assert.False(t, res.Percentage != res.Percentage, "percentage must not be NaN")
}

func TestScoreStandardNilAnswerIsWrong(t *testing.T) {
	res := ScoreStandard(twoQuestions(), []Answer{
		{QuestionID: "q1"},
		{QuestionID: "q2", SelectedOptionID: opt("b")},
	})

	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, 2.0, res.Total)
}

func TestScoreStandardUnknownQuestionIgnored(t *testing.T) {
	base := []Answer{{QuestionID: "q1", SelectedOptionID: opt("a")}}
	withUnknown := append([]Answer{{QuestionID: "nope", SelectedOptionID: opt("a")}}, base...)

	assert.Equal(t, ScoreStandard(twoQuestions(), base), ScoreStandard(twoQuestions(), withUnknown))
}

func TestScoreStandardOnlySingleChoiceCounts(t *testing.T) {
	questions := append(twoQuestions(), Question{ID: "q3", Type: "free_text", CorrectOption: "a"})
	res := ScoreStandard(questions, []Answer{
		{QuestionID: "q1", SelectedOptionID: opt("a")},
		{QuestionID: "q3", SelectedOptionID: opt("a")},
	})

	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, 1.0, res.Total)
	assert.Equal(t, 100.0, res.Percentage)
}

func TestScoreStandardOrderIndependent(t *testing.T) {
	answers := []Answer{
		{QuestionID: "q1", SelectedOptionID: opt("b")},
		{QuestionID: "q2", SelectedOptionID: opt("b")},
	}
	reversed := []Answer{answers[1], answers[0]}

	assert.Equal(t, ScoreStandard(twoQuestions(), answers), ScoreStandard(twoQuestions(), reversed))
}

func TestScoreStandardExactMatch(t *testing.T) {
	res := ScoreStandard(twoQuestions(), []Answer{{QuestionID: "q1", SelectedOptionID: opt("A")}})

	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 1.0, res.Total)
}

func TestStripCorrectOptions(t *testing.T) {
	questions := twoQuestions()
	stripped := StripCorrectOptions(questions)

	for _, q := range stripped {
		assert.Empty(t, q.CorrectOption)
	}
	assert.Equal(t, "a", questions[0].CorrectOption, "original slice must be untouched")
}
