package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidDefinition = errors.New("invalid quiz definition")

// ParseStandardQuiz 解析标准测验文档，支持题目数组或 {"questions": [...]} 两种形式
func ParseStandardQuiz(data []byte) ([]Question, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err == nil {
		return questions, nil
	}

	var wrapped struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return wrapped.Questions, nil
}

func ParsePersonalityQuiz(data []byte) (PersonalityQuiz, error) {
	var quiz PersonalityQuiz
	if len(data) == 0 || string(data) == "null" {
		return quiz, nil
	}
	if err := json.Unmarshal(data, &quiz); err != nil {
		return PersonalityQuiz{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return quiz, nil
}

// ValidateStandardQuiz 校验作者提交的题目：id 唯一，单选题的正确答案必须在选项中
func ValidateStandardQuiz(questions []Question) error {
	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidDefinition, i)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidDefinition, q.ID)
		}
		seen[q.ID] = true

		if q.Type != QuestionTypeSingleChoice {
			continue
		}
		found := false
		for _, o := range q.Options {
			if o.ID == q.CorrectOption {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: question %q correct_option %q is not one of its options", ErrInvalidDefinition, q.ID, q.CorrectOption)
		}
	}
	return nil
}

// ValidatePersonalityQuiz 只要求特质 id 唯一且非空，选项里引用未知特质不算错误
func ValidatePersonalityQuiz(quiz PersonalityQuiz) error {
	seen := make(map[string]bool, len(quiz.Traits))
	for i, t := range quiz.Traits {
		if t.ID == "" {
			return fmt.Errorf("%w: trait %d has no id", ErrInvalidDefinition, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate trait id %q", ErrInvalidDefinition, t.ID)
		}
		seen[t.ID] = true
	}

	for _, q := range quiz.Questions {
		for _, o := range q.Options {
			for traitID, w := range o.Scores {
				if !w.finite() {
					return fmt.Errorf("%w: question %q option %q has a non-finite weight for %q",
						ErrInvalidDefinition, q.ID, o.ID, traitID)
				}
			}
		}
	}
	return nil
}
