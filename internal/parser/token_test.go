package parser

import (
	"reflect"
	"testing"
)

func TestParseWeeks(t *testing.T) {
	cases := []struct {
		token string
		want  []int
	}{
		{"1-3,5", []int{1, 2, 3, 5}},
		{"1-16周", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		{"1-8,10-12周", []int{1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 12}},
		{"1-8周(单)", []int{1, 3, 5, 7}},
		{"2-8双周", []int{2, 4, 6, 8}},
		{"5周", []int{5}},
		{"1-3、5周", []int{1, 2, 3, 5}},
		{"abc", nil},
		{"", nil},
		{"8-3周", nil}, // 逆序区间视为畸形段
	}
	for _, tc := range cases {
		got := ParseWeeks(tc.token)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseWeeks(%q) = %v, 期望 %v", tc.token, got, tc.want)
		}
	}
}

func TestParseWeeks_MalformedSegmentDropped(t *testing.T) {
	// 畸形段静默丢弃，不影响其他段
	got := ParseWeeks("1-3,x,5周")
	want := []int{1, 2, 3, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("畸形段应被丢弃: got %v, 期望 %v", got, want)
	}
}

func TestParsePeriods(t *testing.T) {
	cases := []struct {
		token string
		want  []int
	}{
		{"[01-03节]", []int{1, 2, 3}},
		{"第1-2节", []int{1, 2}},
		{"1,2节", []int{1, 2}},
		{"1-3,5", []int{1, 2, 3, 5}},
		{"第5节", []int{5}},
		{"备注", nil},
	}
	for _, tc := range cases {
		got := ParsePeriods(tc.token)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParsePeriods(%q) = %v, 期望 %v", tc.token, got, tc.want)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	cases := []struct {
		label string
		want  int
	}{
		{"星期一", 1},
		{"星期日", 7},
		{"星期天", 7},
		{"周三", 3},
		{"节次", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := WeekdayOf(tc.label); got != tc.want {
			t.Errorf("WeekdayOf(%q) = %d, 期望 %d", tc.label, got, tc.want)
		}
	}
}

func TestParseClockRange(t *testing.T) {
	start, end, ok := ParseClockRange("第1节\n8:00-08:45")
	if !ok || start != "08:00" || end != "08:45" {
		t.Errorf("期望 08:00-08:45, got %s-%s ok=%v", start, end, ok)
	}

	start, end, ok = ParseClockRange("10:10~10:55")
	if !ok || start != "10:10" || end != "10:55" {
		t.Errorf("期望 10:10-10:55, got %s-%s ok=%v", start, end, ok)
	}

	if _, _, ok := ParseClockRange("第1节"); ok {
		t.Error("无时刻区间的文本不应解析成功")
	}
}
