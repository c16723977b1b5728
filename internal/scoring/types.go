package scoring

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const QuestionTypeSingleChoice = "single_choice"

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question 标准测验题目
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Options       []Option `json:"options"`
	CorrectOption string   `json:"correct_option,omitempty"`
}

// Answer 学生提交的单题答案，SelectedOptionID 为 nil 表示未作答
type Answer struct {
	QuestionID       string  `json:"question_id" binding:"required"`
	SelectedOptionID *string `json:"selected_option_id"`
}

func (a Answer) selected() (string, bool) {
	if a.SelectedOptionID == nil {
		return "", false
	}
	return *a.SelectedOptionID, true
}

type Trait struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Weight 选项对某一特质的权重，兼容数字和数字字符串。
// 无法解析的字符串以及 NaN、±Inf 都按 0 处理
type Weight float64

func (w Weight) finite() bool {
	f := float64(w)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (w *Weight) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*w = Weight(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		*w = Weight(f)
		return nil
	}

	// 布尔、对象等按 0 处理
	*w = 0
	return nil
}

type PersonalityOption struct {
	ID     string            `json:"id"`
	Text   string            `json:"text"`
	Scores map[string]Weight `json:"scores,omitempty"`
}

type PersonalityQuestion struct {
	ID      string              `json:"id"`
	Text    string              `json:"text"`
	Options []PersonalityOption `json:"options"`
}

// PersonalityQuiz 性格测验文档
type PersonalityQuiz struct {
	Questions  []PersonalityQuestion `json:"questions"`
	Traits     []Trait               `json:"traits"`
	Archetypes json.RawMessage       `json:"archetypes,omitempty"`
}
