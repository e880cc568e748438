package service

import (
	"csa_sim_backend/pkg/logger"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"
)

// 认为系统名称匹配的最低token-sort相似度
const systemNameSimilarityThreshold = 70

// SplitSystemList 拆分逗号拼接的系统名称/URL字段
func SplitSystemList(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}

// MatchSystemNames 判断学员引用的系统名称是否覆盖标准答案要求的系统
// 对每个标准名称，任一学员名称的token-sort相似度达到阈值即视为命中
// 未命中的标准名称按原始大小写、原始顺序返回
func MatchSystemNames(traineeNames, idealNames []string) (bool, []string) {
	var missing []string

	for _, idealOriginal := range idealNames {
		ideal := strings.ToLower(idealOriginal)
		found := false
		for _, traineeOriginal := range traineeNames {
			trainee := strings.ToLower(traineeOriginal)
			score := fuzzy.TokenSortRatio(trainee, ideal)
			if score >= systemNameSimilarityThreshold {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, idealOriginal)
		}
	}

	if len(missing) > 0 {
		logger.Log.Debug("trainee system names incomplete", zap.Strings("missing", missing))
		return false, missing
	}
	return true, nil
}

// SystemNameFeedback 生成折叠进评分提示词的名称核对反馈
func SystemNameFeedback(complete bool, missing []string) string {
	if complete {
		return "The source(s) referenced by the trainee are complete."
	}
	return "The source(s) referenced by the trainee are incomplete. The missing source name(s) are " + strings.Join(missing, ", ") + "."
}
