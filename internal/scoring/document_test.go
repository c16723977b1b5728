package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStandardQuizShapes(t *testing.T) {
	arr := `[{"id":"q1","type":"single_choice","options":[{"id":"a","text":"A"}],"correct_option":"a"}]`
	obj := `{"questions":` + arr + `}`

	fromArr, err := ParseStandardQuiz([]byte(arr))
	require.NoError(t, err)
	fromObj, err := ParseStandardQuiz([]byte(obj))
	require.NoError(t, err)

	assert.Equal(t, fromArr, fromObj)
	assert.Equal(t, "a", fromArr[0].CorrectOption)
}

func TestParseStandardQuizEmpty(t *testing.T) {
	q, err := ParseStandardQuiz(nil)
	assert.NoError(t, err)
	assert.Empty(t, q)

	q, err = ParseStandardQuiz([]byte("null"))
	assert.NoError(t, err)
	assert.Empty(t, q)
}

func TestParseStandardQuizMalformed(t *testing.T) {
	_, err := ParseStandardQuiz([]byte(`"not a quiz"`))
	assert.True(t, errors.Is(err, ErrInvalidDefinition))
}

func TestValidateStandardQuiz(t *testing.T) {
	assert.NoError(t, ValidateStandardQuiz(twoQuestions()))

	bad := twoQuestions()
	bad[1].CorrectOption = "z"
	assert.ErrorIs(t, ValidateStandardQuiz(bad), ErrInvalidDefinition)

	dup := twoQuestions()
	dup[1].ID = "q1"
	assert.ErrorIs(t, ValidateStandardQuiz(dup), ErrInvalidDefinition)
}

func TestValidatePersonalityQuiz(t *testing.T) {
	assert.NoError(t, ValidatePersonalityQuiz(PersonalityQuiz{Traits: traits("T1", "T2")}))
	assert.ErrorIs(t, ValidatePersonalityQuiz(PersonalityQuiz{Traits: traits("T1", "T1")}), ErrInvalidDefinition)
	assert.ErrorIs(t, ValidatePersonalityQuiz(PersonalityQuiz{Traits: traits("")}), ErrInvalidDefinition)

	nonFinite := PersonalityQuiz{
		Traits: traits("T1"),
		Questions: []PersonalityQuestion{
			{ID: "q1", Options: []PersonalityOption{{ID: "o1", Scores: map[string]Weight{"T1": Weight(math.Inf(-1))}}}},
		},
	}
	assert.ErrorIs(t, ValidatePersonalityQuiz(nonFinite), ErrInvalidDefinition)
}
