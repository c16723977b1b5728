package scoring

// StandardResult 标准测验得分
type StandardResult struct {
	Score      float64 `json:"score"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

func findQuestion(questions []Question, id string) (*Question, bool) {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i], true
		}
	}
	return nil, false
}

// ScoreStandard 按题目 id 匹配答案并计分，只有单选题计入总数。
// 找不到的题目直接跳过；没有可计分题目时百分比为 0。
func ScoreStandard(questions []Question, answers []Answer) StandardResult {
	var res StandardResult

	for _, answer := range answers {
		q, ok := findQuestion(questions, answer.QuestionID)
		if !ok {
			continue
		}
		if q.Type != QuestionTypeSingleChoice {
			continue
		}

		res.Total++
		if selected, ok := answer.selected(); ok && selected == q.CorrectOption {
			res.Score++
		}
	}

	if res.Total > 0 {
		res.Percentage = res.Score / res.Total * 100
	}
	return res
}

// StripCorrectOptions 返回去掉正确答案的题目副本，供未完成的学生查看
func StripCorrectOptions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.CorrectOption = ""
		out[i] = q
	}
	return out
}
