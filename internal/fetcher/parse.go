package fetcher

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnrecognizedCount 粉丝数文本无法解析
var ErrUnrecognizedCount = errors.New("无法识别的粉丝数文本")

// ParseCount 将平台页面上的粉丝数文本归一化为整数，
// 例如 "12K" -> 12000，"1.5M" -> 1500000，"1,234" -> 1234。
func ParseCount(text string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, ",", "")

	switch {
	case strings.HasSuffix(s, "K"):
		return parseWithMultiplier(s[:len(s)-1], 1_000)
	case strings.HasSuffix(s, "M"):
		return parseWithMultiplier(s[:len(s)-1], 1_000_000)
	}

	// 无后缀时只保留数字位
	var digits strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0, errors.Wrapf(ErrUnrecognizedCount, "%q", text)
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, errors.Wrapf(ErrUnrecognizedCount, "%q", text)
	}
	return n, nil
}

// parseWithMultiplier 先按浮点数解析再乘以倍率，结果截断取整
func parseWithMultiplier(numPart string, multiplier float64) (int, error) {
	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrUnrecognizedCount, "%q", numPart)
	}
	return int(f * multiplier), nil
}
