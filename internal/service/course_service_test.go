package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/binbin323/starschedule-server/internal/dto"
)

// ── 测试辅助 ──

func setupTestCourseService() (CourseService, *mockRepos, *recordNotifier) {
	mocks := newMockRepos()
	notifier := &recordNotifier{}
	svc := NewCourseService(mocks.repo, notifier, zap.NewNop())
	return svc, mocks, notifier
}

func validCourseReq() *dto.CreateCourseRequest {
	return &dto.CreateCourseRequest{
		Name:      "高等数学",
		Teacher:   "张三",
		Location:  "教一-101",
		DayOfWeek: 1,
		Periods:   []int{1, 2},
		Weeks:     []int{1, 2, 3, 4},
	}
}

// ── Create 测试 ──

func TestCourseService_Create_Success(t *testing.T) {
	svc, mocks, notifier := setupTestCourseService()
	ttID := seedTimetable(mocks)

	course, err := svc.Create(context.Background(), ttID, validCourseReq())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if course.Name != "高等数学" {
		t.Errorf("期望Name=高等数学，实际=%s", course.Name)
	}
	if len(notifier.changed) != 1 {
		t.Errorf("应触发一次课表变更通知，实际=%d次", len(notifier.changed))
	}
}

func TestCourseService_Create_FieldValidation(t *testing.T) {
	svc, mocks, _ := setupTestCourseService()
	ttID := seedTimetable(mocks)

	longName := make([]rune, 51)
	for i := range longName {
		longName[i] = '课'
	}

	cases := []struct {
		name   string
		mutate func(*dto.CreateCourseRequest)
		field  string
	}{
		{"空白课程名", func(r *dto.CreateCourseRequest) { r.Name = "   " }, "name"},
		{"课程名超长", func(r *dto.CreateCourseRequest) { r.Name = string(longName) }, "name"},
		{"星期几为0", func(r *dto.CreateCourseRequest) { r.DayOfWeek = 0 }, "day_of_week"},
		{"星期几为9", func(r *dto.CreateCourseRequest) { r.DayOfWeek = 9 }, "day_of_week"},
		{"节次为空", func(r *dto.CreateCourseRequest) { r.Periods = nil }, "periods"},
		{"节次越界", func(r *dto.CreateCourseRequest) { r.Periods = []int{1, 21} }, "periods"},
		{"周次为空", func(r *dto.CreateCourseRequest) { r.Weeks = nil }, "weeks"},
		{"周次越界", func(r *dto.CreateCourseRequest) { r.Weeks = []int{0, 1} }, "weeks"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCourseReq()
			tc.mutate(req)
			_, err := svc.Create(context.Background(), ttID, req)
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

func TestCourseService_Create_NormalizesSets(t *testing.T) {
	svc, mocks, _ := setupTestCourseService()
	ttID := seedTimetable(mocks)

	req := validCourseReq()
	req.Periods = []int{2, 1, 2}
	req.Weeks = []int{3, 1, 1, 2}

	course, err := svc.Create(context.Background(), ttID, req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	wantPeriods := []int{1, 2}
	wantWeeks := []int{1, 2, 3}
	if len(course.Periods) != len(wantPeriods) {
		t.Fatalf("期望节次=%v，实际=%v", wantPeriods, course.Periods)
	}
	for i := range wantPeriods {
		if course.Periods[i] != wantPeriods[i] {
			t.Errorf("期望节次=%v，实际=%v", wantPeriods, course.Periods)
			break
		}
	}
	if len(course.Weeks) != len(wantWeeks) {
		t.Fatalf("期望周次=%v，实际=%v", wantWeeks, course.Weeks)
	}
}

// ── 三轴冲突测试 ──

func TestCourseService_Overlap_AllThreeAxes(t *testing.T) {
	svc, mocks, _ := setupTestCourseService()
	ttID := seedTimetable(mocks)

	if _, err := svc.Create(context.Background(), ttID, validCourseReq()); err != nil {
		t.Fatalf("首门课创建应成功: %v", err)
	}

	// 星期、周次、节次三轴全部相交才算冲突
	conflict := validCourseReq()
	conflict.Name = "线性代数"
	_, err := svc.Create(context.Background(), ttID, conflict)
	var oerr *OverlapError
	if !errors.As(err, &oerr) {
		t.Fatalf("三轴相交期望 OverlapError，实际=%v", err)
	}
}

func TestCourseService_Overlap_SingleAxisDiffers(t *testing.T) {
	svc, mocks, _ := setupTestCourseService()
	ttID := seedTimetable(mocks)

	if _, err := svc.Create(context.Background(), ttID, validCourseReq()); err != nil {
		t.Fatalf("首门课创建应成功: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*dto.CreateCourseRequest)
	}{
		{"星期不同", func(r *dto.CreateCourseRequest) { r.DayOfWeek = 2 }},
		{"节次不相交", func(r *dto.CreateCourseRequest) { r.Periods = []int{3, 4} }},
		{"周次不相交", func(r *dto.CreateCourseRequest) { r.Weeks = []int{5, 6} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCourseReq()
			req.Name = "另一门课-" + tc.name
			tc.mutate(req)
			if _, err := svc.Create(context.Background(), ttID, req); err != nil {
				t.Errorf("仅两轴相交不应冲突: %v", err)
			}
		})
	}
}

func TestCourseService_Update_ExcludesSelf(t *testing.T) {
	svc, mocks, _ := setupTestCourseService()
	ttID := seedTimetable(mocks)

	created, err := svc.Create(context.Background(), ttID, validCourseReq())
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}

	// 原位更新（占用不变）不应与自己冲突
	newTeacher := "李四"
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateCourseRequest{
		Teacher: &newTeacher,
	})
	if err != nil {
		t.Fatalf("原位更新不应报冲突: %v", err)
	}
	if updated.Teacher != "李四" {
		t.Errorf("期望Teacher=李四，实际=%s", updated.Teacher)
	}
}

func TestCourseService_Update_NotFound(t *testing.T) {
	svc, _, _ := setupTestCourseService()

	name := "任意"
	_, err := svc.Update(context.Background(), "c-missing", &dto.UpdateCourseRequest{Name: &name})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("期望 ErrCourseNotFound，实际=%v", err)
	}
}

func TestCourseService_Delete_Notifies(t *testing.T) {
	svc, mocks, notifier := setupTestCourseService()
	ttID := seedTimetable(mocks)

	created, err := svc.Create(context.Background(), ttID, validCourseReq())
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("删除应成功: %v", err)
	}
	if len(notifier.changed) != 2 {
		t.Errorf("创建+删除应各触发一次通知，实际=%d次", len(notifier.changed))
	}
}
