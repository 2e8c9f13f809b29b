package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// AllCategories is the fixed label set the generator samples from.
var AllCategories = []string{
	"开场白", "幽默回复", "土味情话", "高甜语录",
	"早安问候", "晚安问候", "关心体贴", "表白金句",
	"节日祝福", "朋友圈评论",
}

var sensitiveWords = []string{"死", "杀", "恨你", "分手", "离婚", "自杀", "色情", "赌博"}

// categoryKeywords is scanned in order: the first category with a keyword
// hit wins, so the ordering is the tie-break priority.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"土味情话", []string{"土味", "撩", "甜", "情话"}},
	{"表白金句", []string{"表白", "喜欢你", "爱你", "告白"}},
	{"早安问候", []string{"早安", "早上好", "清晨", "起床"}},
	{"晚安问候", []string{"晚安", "好梦", "夜", "入睡", "星星", "月亮"}},
	{"关心体贴", []string{"照顾", "注意身体", "天冷", "吃饭", "别熬夜"}},
	{"幽默回复", []string{"哈哈", "搞笑", "笑", "有趣"}},
}

var (
	leadingYearRegex   = regexp.MustCompile(`^\d{4}`)
	ordinalPrefixRegex = regexp.MustCompile(`^\d+[.、\s]+`)
)

// IsValid reports whether text is an acceptable phrase: 15-80 characters,
// no sensitive words, and not something that looks like a title, date, or
// navigation link.
func IsValid(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	n := utf8.RuneCountInString(text)
	if n < 15 || n > 80 {
		return false
	}
	for _, w := range sensitiveWords {
		if strings.Contains(text, w) {
			return false
		}
	}
	if leadingYearRegex.MatchString(text) || strings.HasPrefix(text, "http") {
		return false
	}
	return true
}

// Classify returns the first category whose keyword set matches the text,
// falling back to the catch-all label.
func Classify(text string) string {
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(text, kw) {
				return ck.category
			}
		}
	}
	return "高甜语录"
}

// CleanScraped trims the text and strips a leading "1." / "1、" / "1 "
// ordinal some list pages prepend.
func CleanScraped(text string) string {
	text = strings.TrimSpace(text)
	return strings.TrimSpace(ordinalPrefixRegex.ReplaceAllString(text, ""))
}
