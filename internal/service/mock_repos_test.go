package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/model"
	"github.com/binbin323/starschedule-server/internal/repository"
)

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	timetables map[string]*model.Timetable
	seq        int

	lessonTimes *mockLessonTimeRepo
	courses     *mockCourseRepo
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{timetables: make(map[string]*model.Timetable)}
}

func (m *mockTimetableRepo) Create(_ context.Context, tt *model.Timetable) error {
	if tt.TimetableID == "" {
		m.seq++
		tt.TimetableID = fmt.Sprintf("tt-%03d", m.seq)
	}
	m.timetables[tt.TimetableID] = tt
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id string) (*model.Timetable, error) {
	if tt, ok := m.timetables[id]; ok {
		return tt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) GetDetail(ctx context.Context, id string) (*model.Timetable, error) {
	tt, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := *tt
	if m.lessonTimes != nil {
		detail.LessonTimes, _ = m.lessonTimes.ListByTimetable(ctx, id)
	}
	if m.courses != nil {
		detail.Courses, _ = m.courses.ListByTimetable(ctx, id)
	}
	return &detail, nil
}

func (m *mockTimetableRepo) List(_ context.Context) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, tt := range m.timetables {
		result = append(result, *tt)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TimetableID < result[j].TimetableID })
	return result, nil
}

func (m *mockTimetableRepo) Update(_ context.Context, tt *model.Timetable) error {
	m.timetables[tt.TimetableID] = tt
	return nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, id string) error {
	delete(m.timetables, id)
	return nil
}

// ── Mock LessonTimeRepository ──

type mockLessonTimeRepo struct {
	rows map[string]*model.LessonTime
	seq  int

	// failOnCreate 模拟存储层失败（批量导入的按条失败路径）
	failOnCreate error
}

func newMockLessonTimeRepo() *mockLessonTimeRepo {
	return &mockLessonTimeRepo{rows: make(map[string]*model.LessonTime)}
}

func (m *mockLessonTimeRepo) Create(_ context.Context, lt *model.LessonTime) error {
	if m.failOnCreate != nil {
		return m.failOnCreate
	}
	if lt.LessonTimeID == "" {
		m.seq++
		lt.LessonTimeID = fmt.Sprintf("lt-%03d", m.seq)
	}
	m.rows[lt.LessonTimeID] = lt
	return nil
}

func (m *mockLessonTimeRepo) GetByID(_ context.Context, id string) (*model.LessonTime, error) {
	if lt, ok := m.rows[id]; ok {
		return lt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonTimeRepo) ListByTimetable(_ context.Context, timetableID string) ([]model.LessonTime, error) {
	var result []model.LessonTime
	for _, lt := range m.rows {
		if lt.TimetableID == timetableID {
			result = append(result, *lt)
		}
	}
	// 与真实仓储一致：按开始时刻升序
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (m *mockLessonTimeRepo) Update(_ context.Context, lt *model.LessonTime) error {
	m.rows[lt.LessonTimeID] = lt
	return nil
}

func (m *mockLessonTimeRepo) UpdatePeriod(_ context.Context, id string, period int) error {
	if lt, ok := m.rows[id]; ok {
		lt.Period = period
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockLessonTimeRepo) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	rows map[string]*model.Course
	seq  int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{rows: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		m.seq++
		course.CourseID = fmt.Sprintf("c-%03d", m.seq)
	}
	m.rows[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.rows[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByTimetable(_ context.Context, timetableID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.rows {
		if c.TimetableID == timetableID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) ListByTimetableAndDay(_ context.Context, timetableID string, dayOfWeek int) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.rows {
		if c.TimetableID == timetableID && c.DayOfWeek == dayOfWeek {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.rows[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

// ── Mock PreferenceRepository ──

type mockPreferenceRepo struct {
	pref model.UserPreference
}

func newMockPreferenceRepo() *mockPreferenceRepo {
	return &mockPreferenceRepo{pref: model.UserPreference{PreferenceID: 1, ReminderEnabled: true}}
}

func (m *mockPreferenceRepo) Get(_ context.Context) (*model.UserPreference, error) {
	p := m.pref
	return &p, nil
}

func (m *mockPreferenceRepo) Update(_ context.Context, pref *model.UserPreference) error {
	pref.PreferenceID = 1
	m.pref = *pref
	return nil
}

// ── 聚合与通知记录 ──

type mockRepos struct {
	repo        *repository.Repository
	timetables  *mockTimetableRepo
	lessonTimes *mockLessonTimeRepo
	courses     *mockCourseRepo
	preference  *mockPreferenceRepo
}

// newMockRepos 组装无数据库的 Repository 聚合；Transaction 直接执行回调
func newMockRepos() *mockRepos {
	timetables := newMockTimetableRepo()
	lessonTimes := newMockLessonTimeRepo()
	courses := newMockCourseRepo()
	timetables.lessonTimes = lessonTimes
	timetables.courses = courses
	preference := newMockPreferenceRepo()
	return &mockRepos{
		repo: &repository.Repository{
			Timetable:  timetables,
			LessonTime: lessonTimes,
			Course:     courses,
			Preference: preference,
		},
		timetables:  timetables,
		lessonTimes: lessonTimes,
		courses:     courses,
		preference:  preference,
	}
}

// recordNotifier 记录副作用触发情况
type recordNotifier struct {
	changed   []string
	refreshed int
}

func (n *recordNotifier) TimetableChanged(_ context.Context, timetableID string) {
	n.changed = append(n.changed, timetableID)
}

func (n *recordNotifier) WidgetRefresh(_ context.Context) {
	n.refreshed++
}
