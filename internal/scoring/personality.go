package scoring

import "math"

// Profile 特质 id 到 0..100 分数的映射
type Profile map[string]int

func findPersonalityQuestion(questions []PersonalityQuestion, id string) (*PersonalityQuestion, bool) {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i], true
		}
	}
	return nil, false
}

func (q *PersonalityQuestion) option(id string) (*PersonalityOption, bool) {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// ScorePersonality 先累加再求平均。
// 某特质的计数只在权重非 0，或选项只作用于一个特质时才增加；
// 平均值截断到 [0,100] 后四舍五入。所有声明的特质都会出现在结果里。
func ScorePersonality(traits []Trait, questions []PersonalityQuestion, answers []Answer) Profile {
	sum := make(map[string]float64, len(traits))
	count := make(map[string]int, len(traits))
	for _, t := range traits {
		sum[t.ID] = 0
		count[t.ID] = 0
	}

	for _, answer := range answers {
		q, ok := findPersonalityQuestion(questions, answer.QuestionID)
		if !ok {
			continue
		}
		selected, ok := answer.selected()
		if !ok {
			continue
		}
		opt, ok := q.option(selected)
		if !ok || len(opt.Scores) == 0 {
			continue
		}

		single := len(opt.Scores) == 1
		for traitID, w := range opt.Scores {
			if _, known := sum[traitID]; !known {
				continue
			}
			if !w.finite() {
				w = 0
			}
			sum[traitID] += float64(w)
			if w != 0 || single {
				count[traitID]++
			}
		}
	}

	profile := make(Profile, len(traits))
	for _, t := range traits {
		var avg float64
		if n := count[t.ID]; n > 0 {
			avg = sum[t.ID] / float64(n)
		}
		profile[t.ID] = int(math.Round(clamp(avg, 0, 100)))
	}
	return profile
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
