package service

import (
	"go.uber.org/zap"

	"github.com/binbin323/starschedule-server/config"
	"github.com/binbin323/starschedule-server/internal/parser"
	"github.com/binbin323/starschedule-server/internal/repository"
	"github.com/binbin323/starschedule-server/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Timetable  TimetableService
	LessonTime LessonTimeService
	Course     CourseService
	Import     ImportService
	Share      ShareService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	dispatcher *parser.Dispatcher,
	notifier Notifier,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	lead := cfg.Reminder.LeadMinutes

	lessonTimes := NewLessonTimeService(repo, notifier, logger)
	courses := NewCourseService(repo, notifier, logger)
	importer := NewImportService(repo, dispatcher, lessonTimes, courses, notifier, lead, logger)

	return &Service{
		Timetable:  NewTimetableService(repo, notifier, lead, logger),
		LessonTime: lessonTimes,
		Course:     courses,
		Import:     importer,
		Share:      NewShareService(importer, rdb, &cfg.Share, lead, logger),
		Export:     NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
