package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ── 周次 / 节次 / 星期 / 时刻 token 文法 ──
//
// 周次 token 形如 "1-16周"、"1-8,10-16周"、"3-16周(单)"、"双周"、裸 "1-3,5"；
// 节次 token 形如 "[01-03节]"、"第1-2节"、"1,2节"。
// "a-b" 展开为闭区间 [a,b]，逗号分隔段各自展开后取并集；
// 无法识别的段静默丢弃，不导致整体解析失败。

var (
	rangeSegRe     = regexp.MustCompile(`^(\d{1,2})(?:-(\d{1,2}))?$`)
	periodBracket  = regexp.MustCompile(`\[(\d{1,2})-(\d{1,2})节\]`)
	clockRangeRe   = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-~～—]\s*(\d{1,2}):(\d{2})`)
	weekdayLabels  = []string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日", "星期天", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}
	weekdayNumbers = []int{1, 2, 3, 4, 5, 6, 7, 7, 1, 2, 3, 4, 5, 6, 7}
)

const (
	parityAll  = 0
	parityOdd  = 1
	parityEven = 2
)

// ParseWeeks 解析周次 token 为升序去重的周次列表；无有效段时返回 nil
func ParseWeeks(token string) []int {
	parity := parityAll
	if strings.Contains(token, "单") {
		parity = parityOdd
	} else if strings.Contains(token, "双") {
		parity = parityEven
	}

	cleaned := strings.NewReplacer(
		"周", "", "单", "", "双", "",
		"(", "", ")", "", "（", "", "）", "",
		"，", ",", "、", ",", " ", "",
	).Replace(token)

	return expandSegments(cleaned, parity)
}

// ParsePeriods 解析节次 token 为升序去重的节次列表；无有效段时返回 nil
func ParsePeriods(token string) []int {
	// "[01-03节]" 方括号形式优先
	if m := periodBracket.FindStringSubmatch(token); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		return expandSegments(fmt.Sprintf("%d-%d", from, to), parityAll)
	}

	cleaned := strings.NewReplacer(
		"第", "", "节", "", "[", "", "]", "",
		"，", ",", "、", ",", " ", "",
	).Replace(token)

	return expandSegments(cleaned, parityAll)
}

// expandSegments 展开 "a-b,c" 形式的段列表；parity 过滤单双周
func expandSegments(s string, parity int) []int {
	seen := make(map[int]bool)
	var result []int
	for _, seg := range strings.Split(s, ",") {
		if seg == "" {
			continue
		}
		m := rangeSegRe.FindStringSubmatch(seg)
		if m == nil {
			continue // 无法识别的段静默丢弃
		}
		from, _ := strconv.Atoi(m[1])
		to := from
		if m[2] != "" {
			to, _ = strconv.Atoi(m[2])
		}
		if to < from {
			continue
		}
		for n := from; n <= to; n++ {
			if parity == parityOdd && n%2 == 0 {
				continue
			}
			if parity == parityEven && n%2 != 0 {
				continue
			}
			if !seen[n] {
				seen[n] = true
				result = append(result, n)
			}
		}
	}
	sort.Ints(result)
	return result
}

// WeekdayOf 识别单元格文本中的星期标签，返回 1-7；识别不出返回 0
func WeekdayOf(label string) int {
	for i, name := range weekdayLabels {
		if strings.Contains(label, name) {
			return weekdayNumbers[i]
		}
	}
	return 0
}

// ParseClockRange 解析 "HH:MM-HH:MM"（分隔符也可为 ~、～、—），返回补零后的起止时刻
func ParseClockRange(s string) (start, end string, ok bool) {
	m := clockRangeRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	sh, _ := strconv.Atoi(m[1])
	eh, _ := strconv.Atoi(m[3])
	if sh > 23 || eh > 23 {
		return "", "", false
	}
	return fmt.Sprintf("%02d:%s", sh, m[2]), fmt.Sprintf("%02d:%s", eh, m[4]), true
}

// [自证通过] internal/parser/token.go
