package http

import (
	"net/http"

	"ketpa-backend/internal/delivery/http/handler"
	"ketpa-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

// uuidPattern keeps /api/doctor/{id} from shadowing the named doctor routes.
const uuidPattern = "{id:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}}"

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	doctorHandler      *handler.DoctorHandler
	patientHandler     *handler.PatientHandler
	dashboardHandler   *handler.DashboardHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	dashboardHandler *handler.DashboardHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		doctorHandler:      doctorHandler,
		patientHandler:     patientHandler,
		dashboardHandler:   dashboardHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Token routes shared by every role
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Patient routes (public)
	user := api.PathPrefix("/user").Subrouter()
	user.HandleFunc("/register", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	user.HandleFunc("/verify-otp", r.authHandler.VerifyOTP).Methods(http.MethodPost)
	user.HandleFunc("/resend-otp", r.authHandler.ResendOTP).Methods(http.MethodPost)
	user.HandleFunc("/login", r.authHandler.LoginPatient).Methods(http.MethodPost)

	// Patient routes (protected - patient only)
	userProtected := api.PathPrefix("/user").Subrouter()
	userProtected.Use(r.authMiddleware.Authenticate)
	userProtected.Use(middleware.RequirePatient)
	userProtected.HandleFunc("/get-profile", r.patientHandler.GetProfile).Methods(http.MethodGet)
	userProtected.HandleFunc("/update-profile", r.patientHandler.UpdateProfile).Methods(http.MethodPost)
	userProtected.HandleFunc("/book-appointment", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	userProtected.HandleFunc("/appointments", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	userProtected.HandleFunc("/cancel-appointment", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	// Doctor directory and doctor login (public)
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.HandleFunc("/list", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	doctor.HandleFunc("/login", r.authHandler.LoginDoctor).Methods(http.MethodPost)
	doctor.HandleFunc("/"+uuidPattern, r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	doctor.HandleFunc("/"+uuidPattern+"/slots", r.doctorHandler.GetSlots).Methods(http.MethodGet)

	// Doctor console (protected - doctor only)
	doctorProtected := api.PathPrefix("/doctor").Subrouter()
	doctorProtected.Use(r.authMiddleware.Authenticate)
	doctorProtected.Use(middleware.RequireDoctor)
	doctorProtected.HandleFunc("/appointments", r.appointmentHandler.GetDoctorAppointments).Methods(http.MethodGet)
	doctorProtected.HandleFunc("/complete-appointment", r.appointmentHandler.CompleteAppointment).Methods(http.MethodPost)
	doctorProtected.HandleFunc("/cancel-appointment", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)
	doctorProtected.HandleFunc("/dashboard", r.dashboardHandler.DoctorDashboard).Methods(http.MethodGet)
	doctorProtected.HandleFunc("/profile", r.doctorHandler.GetProfile).Methods(http.MethodGet)
	doctorProtected.HandleFunc("/update-profile", r.doctorHandler.UpdateProfile).Methods(http.MethodPost)

	// Admin login (public)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/login", r.authHandler.LoginAdmin).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	adminProtected := api.PathPrefix("/admin").Subrouter()
	adminProtected.Use(r.authMiddleware.Authenticate)
	adminProtected.Use(middleware.RequireAdmin)
	adminProtected.HandleFunc("/add-doctor", r.doctorHandler.AddDoctor).Methods(http.MethodPost)
	adminProtected.HandleFunc("/all-doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	adminProtected.HandleFunc("/change-availability", r.doctorHandler.ChangeAvailability).Methods(http.MethodPost)
	adminProtected.HandleFunc("/appointments", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	adminProtected.HandleFunc("/cancel-appointment", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)
	adminProtected.HandleFunc("/dashboard", r.dashboardHandler.AdminDashboard).Methods(http.MethodGet)
	adminProtected.HandleFunc("/audit-logs", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
