package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/service"
	"github.com/chartwell-health/chartwell/pkg/auth"
	"github.com/chartwell-health/chartwell/pkg/metrics"
)

// Router owns the full HTTP surface. Authorization is enforced twice: the
// route groups fail fast on role level, and every service call re-checks
// against the actor.
type Router struct {
	auth         *AuthHandler
	users        *UserHandler
	patients     *PatientHandler
	prescription *PrescriptionHandler
	lab          *LabHandler
	imaging      *ImagingHandler
	scheduling   *SchedulingHandler
	billing      *BillingHandler
	careplan     *CarePlanHandler
	coordination *CoordinationHandler
	reports      *ReportHandler
	contact      *ContactHandler
	dashboard    *DashboardHandler

	jwtManager *auth.JWTManager
	collector  *metrics.Collector
	log        *zap.Logger
}

type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Patients     *service.PatientService
	Prescription *service.PrescriptionService
	Lab          *service.LabService
	Imaging      *service.ImagingService
	Scheduling   *service.SchedulingService
	Billing      *service.BillingService
	CarePlan     *service.CarePlanService
	Coordination *service.CoordinationService
	Reports      *service.ReportService
	Contact      *service.ContactService
	Dashboard    *service.DashboardService
}

func NewRouter(svcs Services, jwtManager *auth.JWTManager, collector *metrics.Collector, log *zap.Logger) *Router {
	return &Router{
		auth:         NewAuthHandler(svcs.Auth),
		users:        NewUserHandler(svcs.Users),
		patients:     NewPatientHandler(svcs.Patients),
		prescription: NewPrescriptionHandler(svcs.Prescription),
		lab:          NewLabHandler(svcs.Lab),
		imaging:      NewImagingHandler(svcs.Imaging),
		scheduling:   NewSchedulingHandler(svcs.Scheduling),
		billing:      NewBillingHandler(svcs.Billing),
		careplan:     NewCarePlanHandler(svcs.CarePlan),
		coordination: NewCoordinationHandler(svcs.Coordination),
		reports:      NewReportHandler(svcs.Reports),
		contact:      NewContactHandler(svcs.Contact),
		dashboard:    NewDashboardHandler(svcs.Dashboard),
		jwtManager:   jwtManager,
		collector:    collector,
		log:          log,
	}
}

func (r *Router) RegisterRoutes(router *gin.Engine) {
	router.Use(RequestID(), RequestLogger(r.log))
	if r.collector != nil {
		router.Use(Metrics(r.collector))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	v1 := router.Group("/api/v1")

	// Public surface: account bootstrap and the contact form.
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", r.auth.Register)
		authGroup.POST("/login", r.auth.Login)
		authGroup.POST("/refresh", r.auth.Refresh)
	}
	v1.POST("/contact", r.contact.Submit)

	// Everything below requires a valid access token. Ownership scoping and
	// per-operation role checks happen in the services.
	authed := v1.Group("", Authenticate(r.jwtManager))
	{
		authed.POST("/auth/change-password", r.auth.ChangePassword)
		authed.GET("/dashboard", r.dashboard.Summary)

		patients := authed.Group("/patients")
		{
			patients.POST("", r.patients.Create)
			patients.GET("", r.patients.List)
			patients.GET("/:id", r.patients.Get)
			patients.PUT("/:id", r.patients.Update)
			patients.DELETE("/:id", r.patients.Delete)
			patients.GET("/:id/histories", r.patients.ListHistories)
			patients.GET("/:id/allergies", r.patients.ListAllergies)
			patients.GET("/:id/immunizations", r.patients.ListImmunizations)
		}

		histories := authed.Group("/medical-histories")
		{
			histories.POST("", r.patients.CreateHistory)
			histories.GET("/:id", r.patients.GetHistory)
			histories.PUT("/:id", r.patients.UpdateHistory)
			histories.DELETE("/:id", r.patients.DeleteHistory)
		}

		allergies := authed.Group("/allergies")
		{
			allergies.POST("", r.patients.CreateAllergy)
			allergies.GET("/:id", r.patients.GetAllergy)
			allergies.PUT("/:id", r.patients.UpdateAllergy)
			allergies.DELETE("/:id", r.patients.DeleteAllergy)
		}

		immunizations := authed.Group("/immunizations")
		{
			immunizations.POST("", r.patients.CreateImmunization)
			immunizations.GET("/:id", r.patients.GetImmunization)
			immunizations.PUT("/:id", r.patients.UpdateImmunization)
			immunizations.DELETE("/:id", r.patients.DeleteImmunization)
		}

		prescriptions := authed.Group("/prescriptions")
		{
			prescriptions.POST("", r.prescription.Create)
			prescriptions.GET("", r.prescription.List)
			prescriptions.GET("/:id", r.prescription.Get)
			prescriptions.PUT("/:id", r.prescription.Update)
			prescriptions.DELETE("/:id", r.prescription.Delete)
		}

		labTests := authed.Group("/lab-tests")
		{
			labTests.POST("", r.lab.CreateTest)
			labTests.GET("", r.lab.ListTests)
			labTests.GET("/:id", r.lab.GetTest)
			labTests.PUT("/:id", r.lab.UpdateTest)
			labTests.DELETE("/:id", r.lab.DeleteTest)
		}

		labResults := authed.Group("/lab-results")
		{
			labResults.POST("", r.lab.CreateResult)
			labResults.GET("/:id", r.lab.GetResult)
			labResults.PUT("/:id", r.lab.UpdateResult)
			labResults.DELETE("/:id", r.lab.DeleteResult)
		}

		studies := authed.Group("/imaging-studies")
		{
			studies.POST("", r.imaging.CreateStudy)
			studies.GET("", r.imaging.ListStudies)
			studies.GET("/:id", r.imaging.GetStudy)
			studies.PUT("/:id", r.imaging.UpdateStudy)
			studies.DELETE("/:id", r.imaging.DeleteStudy)
		}

		imagingResults := authed.Group("/imaging-results")
		{
			imagingResults.POST("", r.imaging.CreateResult)
			imagingResults.GET("/:id", r.imaging.GetResult)
			imagingResults.PUT("/:id", r.imaging.UpdateResult)
			imagingResults.DELETE("/:id", r.imaging.DeleteResult)
		}

		appointments := authed.Group("/appointments")
		{
			appointments.POST("", r.scheduling.CreateAppointment)
			appointments.GET("", r.scheduling.ListAppointments)
			appointments.GET("/:id", r.scheduling.GetAppointment)
			appointments.PUT("/:id", r.scheduling.UpdateAppointment)
			appointments.DELETE("/:id", r.scheduling.DeleteAppointment)
		}

		sessions := authed.Group("/telehealth-sessions")
		{
			sessions.POST("", r.scheduling.CreateSession)
			sessions.GET("", r.scheduling.ListSessions)
			sessions.GET("/:id", r.scheduling.GetSession)
			sessions.PUT("/:id", r.scheduling.UpdateSession)
			sessions.DELETE("/:id", r.scheduling.DeleteSession)
		}

		billingRecords := authed.Group("/billing-records")
		{
			billingRecords.POST("", r.billing.CreateRecord)
			billingRecords.GET("", r.billing.ListRecords)
			billingRecords.GET("/:id", r.billing.GetRecord)
			billingRecords.PUT("/:id", r.billing.UpdateRecord)
			billingRecords.DELETE("/:id", r.billing.DeleteRecord)
		}

		policies := authed.Group("/insurance-policies")
		{
			policies.POST("", r.billing.CreatePolicy)
			policies.GET("", r.billing.ListPolicies)
			policies.GET("/:id", r.billing.GetPolicy)
			policies.PUT("/:id", r.billing.UpdatePolicy)
			policies.DELETE("/:id", r.billing.DeletePolicy)
		}

		plans := authed.Group("/treatment-plans")
		{
			plans.POST("", r.careplan.CreatePlan)
			plans.GET("", r.careplan.ListPlans)
			plans.GET("/:id", r.careplan.GetPlan)
			plans.PUT("/:id", r.careplan.UpdatePlan)
			plans.DELETE("/:id", r.careplan.DeletePlan)
			plans.GET("/:id/notes", r.careplan.ListNotes)
		}

		notes := authed.Group("/progress-notes")
		{
			notes.POST("", r.careplan.CreateNote)
			notes.GET("/:id", r.careplan.GetNote)
			notes.PUT("/:id", r.careplan.UpdateNote)
			notes.DELETE("/:id", r.careplan.DeleteNote)
		}

		alerts := authed.Group("/alerts")
		{
			alerts.POST("", r.coordination.CreateAlert)
			alerts.GET("", r.coordination.ListAlerts)
			alerts.GET("/mine", r.coordination.ListMyAlerts)
			alerts.GET("/:id", r.coordination.GetAlert)
			alerts.PUT("/:id", r.coordination.UpdateAlert)
			alerts.DELETE("/:id", r.coordination.DeleteAlert)
			alerts.POST("/:id/read", r.coordination.MarkAlertRead)
		}

		tasks := authed.Group("/tasks")
		{
			tasks.POST("", r.coordination.CreateTask)
			tasks.GET("", r.coordination.ListTasks)
			tasks.GET("/:id", r.coordination.GetTask)
			tasks.PUT("/:id", r.coordination.UpdateTask)
			tasks.DELETE("/:id", r.coordination.DeleteTask)
		}

		reports := authed.Group("/reports")
		{
			reports.POST("", r.reports.Create)
			reports.GET("", r.reports.List)
			reports.GET("/:id", r.reports.Get)
			reports.PUT("/:id", r.reports.Update)
			reports.DELETE("/:id", r.reports.Delete)
			reports.POST("/:id/parameters", r.reports.AddParameter)
			reports.GET("/:id/parameters", r.reports.ListParameters)
			reports.POST("/:id/generate", r.reports.Generate)
			reports.GET("/:id/results", r.reports.ListResults)
		}
		authed.DELETE("/report-parameters/:paramID", r.reports.DeleteParameter)
		authed.GET("/report-results/:resultID", r.reports.GetResult)

		admin := authed.Group("", RequireLevel(access.Admin))
		{
			users := admin.Group("/users")
			{
				users.POST("", r.users.Create)
				users.GET("", r.users.List)
				users.GET("/:id", r.users.Get)
				users.PUT("/:id", r.users.Update)
				users.DELETE("/:id", r.users.Delete)
			}
			admin.GET("/contact-submissions", r.contact.Recent)
		}
	}
}
