package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reYear      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	reFourDigit = regexp.MustCompile(`\d{4}`)
	reDigits    = regexp.MustCompile(`\d+`)
	reFloat     = regexp.MustCompile(`\d+(\.\d+)?`)
)

// CleanText 清理文本：去首尾空白并折叠连续空白
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}

// ParseYear 从年份文本解析 4 位年份（如 "2010"、"(1994)"）
// 超出 1888 到 当前年+5 的合理范围视为无效
func ParseYear(text string) *int {
	match := reFourDigit.FindString(text)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	if year < 1888 || year > time.Now().Year()+5 {
		return nil
	}
	return &year
}

// ExtractYear 从任意文本中提取第一个形如 19xx/20xx 的年份
// 这是兜底启发式，可能误取简介中的无关数字，结果不应视为权威
func ExtractYear(text string) *int {
	match := reYear.FindString(text)
	if match == "" {
		return nil
	}
	year, _ := strconv.Atoi(match)
	return &year
}

// ParseVotes 从票数文本解析非负整数（容忍千分位逗号，如 "1,234,567"）
func ParseVotes(text string) *int {
	cleaned := strings.ReplaceAll(text, ",", "")
	match := reDigits.FindString(cleaned)
	if match == "" {
		return nil
	}
	votes, err := strconv.Atoi(match)
	if err != nil || votes < 0 {
		return nil
	}
	return &votes
}

// ParseScore 从评分文本解析浮点评分
func ParseScore(text string) *float64 {
	match := reFloat.FindString(text)
	if match == "" {
		return nil
	}
	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &score
}
