package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/binbin323/starschedule-server/internal/dto"
	"github.com/binbin323/starschedule-server/internal/model"
)

// ── 测试辅助 ──

func setupTestLessonTimeService() (LessonTimeService, *mockRepos, *recordNotifier) {
	mocks := newMockRepos()
	notifier := &recordNotifier{}
	svc := NewLessonTimeService(mocks.repo, notifier, zap.NewNop())
	return svc, mocks, notifier
}

func seedTimetable(mocks *mockRepos) string {
	tt := &model.Timetable{
		Name:      "测试课表",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.Local),
	}
	mocks.timetables.Create(context.Background(), tt)
	return tt.TimetableID
}

// ── Create 测试 ──

func TestLessonTimeService_Create_Success(t *testing.T) {
	svc, mocks, notifier := setupTestLessonTimeService()
	ttID := seedTimetable(mocks)

	lt, err := svc.Create(context.Background(), ttID, &dto.UpsertLessonTimeRequest{
		StartTime: "08:00", EndTime: "08:45",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if lt.Period != 1 {
		t.Errorf("期望Period=1，实际=%d", lt.Period)
	}
	if len(notifier.changed) != 1 || notifier.changed[0] != ttID {
		t.Errorf("应触发一次课表变更通知，实际=%v", notifier.changed)
	}
	if notifier.refreshed != 1 {
		t.Errorf("应触发一次小组件刷新，实际=%d", notifier.refreshed)
	}
}

func TestLessonTimeService_Create_InvalidClock(t *testing.T) {
	svc, mocks, _ := setupTestLessonTimeService()
	ttID := seedTimetable(mocks)

	cases := []struct {
		name       string
		start, end string
		field      string
	}{
		{"开始时刻非零填充", "8:00", "08:45", "start_time"},
		{"开始时刻越界", "25:00", "08:45", "start_time"},
		{"结束时刻非法", "08:00", "08:60", "end_time"},
		{"结束早于开始", "09:00", "08:30", "end_time"},
		{"结束等于开始", "08:00", "08:00", "end_time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), ttID, &dto.UpsertLessonTimeRequest{
				StartTime: tc.start, EndTime: tc.end,
			})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("期望 ValidationError，实际=%v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("期望字段=%s，实际=%s", tc.field, verr.Field)
			}
		})
	}
}

func TestLessonTimeService_Create_TimetableNotFound(t *testing.T) {
	svc, _, _ := setupTestLessonTimeService()

	_, err := svc.Create(context.Background(), "tt-missing", &dto.UpsertLessonTimeRequest{
		StartTime: "08:00", EndTime: "08:45",
	})
	if !errors.Is(err, ErrTimetableNotFound) {
		t.Fatalf("期望 ErrTimetableNotFound，实际=%v", err)
	}
}

// ── 重叠检测测试 ──

func TestLessonTimeService_Create_OverlapRejected(t *testing.T) {
	svc, mocks, _ := setupTestLessonTimeService()
	ttID := seedTimetable(mocks)

	if _, err := svc.Create(context.Background(), ttID, &dto.UpsertLessonTimeRequest{
		StartTime: "08:00", EndTime: "08:45",
	}); err != nil {
		t.Fatalf("首节创建应成功: %v", err)
	}

	// 部分重叠：08:30-09:15 与 08:00-08:45 相交
	_, err := svc.Create(context.Background(), ttID, &dto.UpsertLessonTimeRequest{
		StartTime: "08:30", EndTime: "09:15",
	})
	var oerr *OverlapError
	if !errors.As(err, &oerr) {
		t.Fatalf("期望 OverlapError，实际=%v", err)
	}
}

func TestLessonTimeService_Create_TouchingBoundaryAllowed(t *testing.T) {
	svc, mocks, _ := setupTestLessonTimeService()
	ttID := seedTimetable(mocks)

	if _, err := svc.Create(context.Background(), ttID, &dto.UpsertLessonTimeRequest{
		StartTime: "08:00", EndTime: "08:45",
	}); err != nil {
		t.Fatalf("首节创建应成功: %v", err)
	}

	// 边界相接：上一节 08:45 结束，下一节 08:45 开始，不算重叠
	lt, err := svc.Create(context.Background(), ttID, &dto.UpsertLessonTimeRequest{
		StartTime: "08:45", EndTime: "09:30",
	})
	if err != nil {
		t.Fatalf("边界相接应被允许: %v", err)
	}
	if lt.Period != 2 {
		t.Errorf("期望Period=2，实际=%d", lt.Period)
	}
}

func TestLessonTimeService_Update_ExcludesSelf(t *testing.T) {
	svc, mocks, _ := setupTestLessonTimeService()
	ttID := seedTimetable(mocks)

	created, err := svc.Create(context.Background(), ttID, &dto.UpsertLessonTimeRequest{
		StartTime: "08:00", EndTime: "08:45",
	})
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}

	// 只微调自身时刻，与旧的自己"重叠"不应算冲突
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpsertLessonTimeRequest{
		StartTime: "08:05", EndTime: "08:50",
	})
	if err != nil {
		t.Fatalf("更新自身不应报冲突: %v", err)
	}
	if updated.StartTime != "08:05" {
		t.Errorf("期望StartTime=08:05，实际=%s", updated.StartTime)
	}
}

// ── 重编号测试 ──

func TestLessonTimeService_Renumber_ByStartTime(t *testing.T) {
	svc, mocks, _ := setupTestLessonTimeService()
	ttID := seedTimetable(mocks)

	// 乱序插入：10:00、08:00、09:00
	for _, r := range []dto.UpsertLessonTimeRequest{
		{StartTime: "10:00", EndTime: "10:45"},
		{StartTime: "08:00", EndTime: "08:45"},
		{StartTime: "09:00", EndTime: "09:45"},
	} {
		req := r
		if _, err := svc.Create(context.Background(), ttID, &req); err != nil {
			t.Fatalf("创建应成功: %v", err)
		}
	}

	lts, err := svc.List(context.Background(), ttID)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(lts) != 3 {
		t.Fatalf("期望3条节次时间，实际=%d", len(lts))
	}
	expected := []struct {
		period int
		start  string
	}{{1, "08:00"}, {2, "09:00"}, {3, "10:00"}}
	for i, e := range expected {
		if lts[i].Period != e.period || lts[i].StartTime != e.start {
			t.Errorf("第%d行期望(period=%d, start=%s)，实际(period=%d, start=%s)",
				i, e.period, e.start, lts[i].Period, lts[i].StartTime)
		}
	}
}

func TestLessonTimeService_Renumber_Idempotent(t *testing.T) {
	svc, mocks, _ := setupTestLessonTimeService()
	ttID := seedTimetable(mocks)

	for _, r := range []dto.UpsertLessonTimeRequest{
		{StartTime: "08:00", EndTime: "08:45"},
		{StartTime: "09:00", EndTime: "09:45"},
	} {
		req := r
		if _, err := svc.Create(context.Background(), ttID, &req); err != nil {
			t.Fatalf("创建应成功: %v", err)
		}
	}

	// 对已编号的数据再跑一次重编号，结果不变
	rows, err := renumberLessonTimes(context.Background(), mocks.repo, ttID)
	if err != nil {
		t.Fatalf("重编号应成功: %v", err)
	}
	for i, row := range rows {
		if row.Period != i+1 {
			t.Errorf("重复编号后第%d行期望period=%d，实际=%d", i, i+1, row.Period)
		}
	}
}

func TestLessonTimeService_Delete_Renumbers(t *testing.T) {
	svc, mocks, _ := setupTestLessonTimeService()
	ttID := seedTimetable(mocks)

	var ids []string
	for _, r := range []dto.UpsertLessonTimeRequest{
		{StartTime: "08:00", EndTime: "08:45"},
		{StartTime: "09:00", EndTime: "09:45"},
		{StartTime: "10:00", EndTime: "10:45"},
	} {
		req := r
		lt, err := svc.Create(context.Background(), ttID, &req)
		if err != nil {
			t.Fatalf("创建应成功: %v", err)
		}
		ids = append(ids, lt.ID)
	}

	// 删掉中间一节，后继节次应前移补位
	if err := svc.Delete(context.Background(), ids[1]); err != nil {
		t.Fatalf("删除应成功: %v", err)
	}

	lts, _ := svc.List(context.Background(), ttID)
	if len(lts) != 2 {
		t.Fatalf("期望剩余2条，实际=%d", len(lts))
	}
	if lts[0].Period != 1 || lts[0].StartTime != "08:00" {
		t.Errorf("第1行期望(1, 08:00)，实际(%d, %s)", lts[0].Period, lts[0].StartTime)
	}
	if lts[1].Period != 2 || lts[1].StartTime != "10:00" {
		t.Errorf("第2行期望(2, 10:00)，实际(%d, %s)", lts[1].Period, lts[1].StartTime)
	}
}
