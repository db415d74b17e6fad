package parser

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

// ── 测试替身 ──

type fakeParser struct {
	name   string
	result *Result
	err    error
	panics bool
	calls  int
}

func (f *fakeParser) Name() string { return f.name }

func (f *fakeParser) Parse(data []byte) (*Result, error) {
	f.calls++
	if f.panics {
		panic("boom")
	}
	return f.result, f.err
}

func okResult() *Result {
	return &Result{
		Courses: []ParsedCourse{{
			Name: "高等数学", DayOfWeek: 1, Periods: []int{1, 2}, Weeks: []int{1, 2, 3},
		}},
	}
}

func TestDispatcher_FirstSuccessWins(t *testing.T) {
	failing := &fakeParser{name: "p1", err: errors.New("格式不符")}
	succeeding := &fakeParser{name: "p2", result: okResult()}

	d := NewDispatcher(zap.NewNop())
	d.Register(failing)
	d.Register(succeeding)

	result, err := d.TryParse([]byte("doc"))
	if err != nil {
		t.Fatalf("应返回 p2 的结果: %v", err)
	}
	if len(result.Courses) != 1 || result.Courses[0].Name != "高等数学" {
		t.Errorf("结果不符: %+v", result)
	}
	if failing.calls != 1 || succeeding.calls != 1 {
		t.Errorf("尝试次数不符: p1=%d p2=%d", failing.calls, succeeding.calls)
	}
}

func TestDispatcher_ShortCircuit(t *testing.T) {
	first := &fakeParser{name: "p2", result: okResult()}
	second := &fakeParser{name: "p1", err: errors.New("格式不符")}

	d := NewDispatcher(zap.NewNop())
	d.Register(first)
	d.Register(second)

	if _, err := d.TryParse([]byte("doc")); err != nil {
		t.Fatalf("应返回 p2 的结果: %v", err)
	}
	if second.calls != 0 {
		t.Error("首个解析器成功后不应再尝试后续解析器")
	}
}

func TestDispatcher_AllFail(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	d.Register(&fakeParser{name: "p1", err: errors.New("格式不符")})
	d.Register(&fakeParser{name: "p2", err: errors.New("格式不符")})

	_, err := d.TryParse([]byte("doc"))
	if !errors.Is(err, ErrNoParserMatched) {
		t.Errorf("期望 ErrNoParserMatched, 实际: %v", err)
	}
}

func TestDispatcher_RecoversPanic(t *testing.T) {
	panicking := &fakeParser{name: "p1", panics: true}
	succeeding := &fakeParser{name: "p2", result: okResult()}

	d := NewDispatcher(zap.NewNop())
	d.Register(panicking)
	d.Register(succeeding)

	result, err := d.TryParse([]byte("doc"))
	if err != nil {
		t.Fatalf("单个解析器 panic 不应中断扫描: %v", err)
	}
	if result == nil {
		t.Fatal("应返回 p2 的结果")
	}
}

func TestDispatcher_EmptyResultIsFailure(t *testing.T) {
	// 零课程的"成功"视为失败，继续尝试下一个解析器
	empty := &fakeParser{name: "p1", result: &Result{}}
	succeeding := &fakeParser{name: "p2", result: okResult()}

	d := NewDispatcher(zap.NewNop())
	d.Register(empty)
	d.Register(succeeding)

	result, err := d.TryParse([]byte("doc"))
	if err != nil || len(result.Courses) != 1 {
		t.Fatalf("空结果应按失败处理并继续尝试: %v", err)
	}
}
