package service

import (
	"encoding/json"
	"math"
)

const noFeedback = "No feedback"

// ScoreRecord 一次评分的结构化结果，分数在[0,5]区间
// swagger:model ScoreRecord
type ScoreRecord struct {
	AccuracyScore     int    `json:"accuracy_score"`
	PrecisionScore    int    `json:"precision_score"`
	ToneScore         int    `json:"tone_score"`
	AccuracyFeedback  string `json:"accuracy_feedback"`
	PrecisionFeedback string `json:"precision_feedback"`
	ToneFeedback      string `json:"tone_feedback"`
	Feedback          string `json:"feedback"`
}

// ScoreParseResult 显式标记降级路径：Degraded为真表示模型输出无法解析，
// 返回的是全零哨兵记录而不是真实评分
type ScoreParseResult struct {
	Record   ScoreRecord
	Degraded bool
	Reason   string
}

// SentinelScoreRecord 解析完全失败时的固定降级结果
func SentinelScoreRecord() ScoreRecord {
	return ScoreRecord{
		AccuracyFeedback:  noFeedback,
		PrecisionFeedback: noFeedback,
		ToneFeedback:      noFeedback,
		Feedback:          noFeedback,
	}
}

// ParseScores 三级容错解析模型输出
// 1. 整体按JSON对象解析
// 2. 失败则包一层大括号重试（模型偶尔只输出键值对）
// 3. 仍失败则返回哨兵记录，保证调用方永远拿到结构化结果
func ParseScores(raw string) ScoreParseResult {
	if record, ok := parseScoreObject(raw); ok {
		return ScoreParseResult{Record: record}
	}

	if record, ok := parseScoreObject("{" + raw + "}"); ok {
		return ScoreParseResult{
			Record:   record,
			Degraded: true,
			Reason:   "model output missing enclosing braces",
		}
	}

	return ScoreParseResult{
		Record:   SentinelScoreRecord(),
		Degraded: true,
		Reason:   "model output is not valid JSON",
	}
}

func parseScoreObject(raw string) (ScoreRecord, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return ScoreRecord{}, false
	}

	return ScoreRecord{
		AccuracyScore:     clampScore(obj["Accuracy"]),
		PrecisionScore:    clampScore(obj["Precision"]),
		ToneScore:         clampScore(obj["Tone"]),
		AccuracyFeedback:  stringField(obj["Accuracy Feedback"]),
		PrecisionFeedback: stringField(obj["Precision Feedback"]),
		ToneFeedback:      stringField(obj["Tone Feedback"]),
		Feedback:          stringField(obj["Feedback"]),
	}, true
}

func clampScore(v interface{}) int {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	score := int(math.Round(f))
	if score < 0 {
		return 0
	}
	if score > 5 {
		return 5
	}
	return score
}

func stringField(v interface{}) string {
	s, _ := v.(string)
	return s
}
