package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/handler"
	"github.com/si-mbkm/mbkm-api/internal/middleware"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/internal/service"
	"github.com/si-mbkm/mbkm-api/pkg/config"
	"github.com/si-mbkm/mbkm-api/pkg/logger"
	corsmiddleware "github.com/si-mbkm/mbkm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/si-mbkm/mbkm-api/pkg/middleware/requestid"
)

// Options controls the parts of the route table that depend on configuration.
type Options struct {
	Env            string
	APIPrefix      string
	AllowedOrigins []string
	// UploadsDir is served at /uploads when set.
	UploadsDir string
}

// Handlers groups every HTTP handler mounted by New.
type Handlers struct {
	Auth          *handler.AuthHandler
	Students      *handler.StudentHandler
	Supervisors   *handler.StaffHandler
	Coordinators  *handler.StaffHandler
	AdminStaff    *handler.StaffHandler
	Programs      *handler.ProgramHandler
	Courses       *handler.CourseHandler
	Registrations *handler.RegistrationHandler
	Files         *handler.FileHandler
	Grades        *handler.GradeConversionHandler
	Logbooks      *handler.LogbookHandler
	Reports       *handler.ReportHandler
	Metrics       *handler.MetricsHandler
}

var (
	coordinatorOnly   = middleware.RequireRoles(models.RoleKoorMBKM)
	administration    = middleware.RequireRoles(models.RoleKoorMBKM, models.RoleAdminSIAP)
	studentOnly       = middleware.RequireRoles(models.RoleMahasiswa)
	registrationWrite = middleware.RequireRoles(models.RoleMahasiswa, models.RoleKoorMBKM)
	gradeAuthors      = middleware.RequireRoles(models.RoleDosbing, models.RoleKoorMBKM)
	gradeEditors      = middleware.RequireRoles(models.RoleDosbing, models.RoleKoorMBKM, models.RoleAdminSIAP)
)

// New builds the gin engine with the full MBKM route table.
func New(opts Options, h Handlers, tokens middleware.TokenValidator, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(logger.Recovery(logr))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if opts.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opts.UploadsDir != "" {
		r.Static("/uploads", opts.UploadsDir)
	}

	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/register", h.Auth.Register)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	secured.GET("/auth/me", h.Auth.Me)

	students := secured.Group("/mahasiswa")
	students.GET("", h.Students.List)
	students.GET("/:nim", h.Students.Get)
	students.GET("/:nim/pendaftaran-mbkm", h.Registrations.ListByStudent)
	students.POST("", coordinatorOnly, h.Students.Create)
	students.PUT("/:nim", coordinatorOnly, h.Students.Update)
	students.DELETE("/:nim", coordinatorOnly, h.Students.Delete)

	mountStaff(secured.Group("/dosbing"), h.Supervisors)
	mountStaff(secured.Group("/koor-mbkm"), h.Coordinators)
	mountStaff(secured.Group("/admin-siap"), h.AdminStaff)

	programs := secured.Group("/program-mbkm")
	programs.GET("", h.Programs.List)
	programs.GET("/:id", h.Programs.Get)
	programs.POST("", administration, h.Programs.Create)
	programs.PUT("/:id", administration, h.Programs.Update)
	programs.DELETE("/:id", administration, h.Programs.Delete)

	courses := secured.Group("/matkul-knvrs")
	courses.GET("", h.Courses.List)
	courses.GET("/:id", h.Courses.Get)
	courses.POST("", coordinatorOnly, h.Courses.Create)
	courses.PUT("/:id", coordinatorOnly, h.Courses.Update)
	courses.DELETE("/:id", coordinatorOnly, h.Courses.Delete)

	registrations := secured.Group("/pendaftaran-mbkm")
	registrations.GET("", h.Registrations.List)
	registrations.GET("/:id", h.Registrations.Get)
	registrations.POST("", registrationWrite, h.Registrations.Create)
	registrations.PUT("/:id", registrationWrite, h.Registrations.Update)
	registrations.DELETE("/:id", registrationWrite, h.Registrations.Delete)

	files := secured.Group("/berkas-penilaian")
	files.GET("", h.Files.List)
	files.GET("/:id", h.Files.Get)
	files.POST("", studentOnly, h.Files.Upload)
	files.DELETE("/:id", studentOnly, h.Files.Delete)

	grades := secured.Group("/konversi-nilai")
	grades.GET("", gradeEditors, h.Grades.List)
	grades.GET("/:id", gradeEditors, h.Grades.Get)
	grades.POST("", gradeAuthors, h.Grades.Create)
	grades.PUT("/:id", gradeEditors, h.Grades.Update)
	grades.DELETE("/:id", gradeAuthors, h.Grades.Delete)

	logbooks := secured.Group("/logbook")
	logbooks.GET("", h.Logbooks.List)
	logbooks.GET("/:id", h.Logbooks.Get)
	logbooks.POST("", studentOnly, h.Logbooks.Create)
	logbooks.PUT("/:id", studentOnly, h.Logbooks.Update)
	logbooks.DELETE("/:id", studentOnly, h.Logbooks.Delete)

	reports := secured.Group("/reports", administration)
	reports.GET("/pendaftaran-mbkm", h.Reports.Registrations)

	return r
}

func mountStaff(group *gin.RouterGroup, h *handler.StaffHandler) {
	group.GET("", h.List)
	group.GET("/:nip", h.Get)
	group.POST("", administration, h.Create)
	group.PUT("/:nip", administration, h.Update)
	group.DELETE("/:nip", administration, h.Delete)
}
