package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/internal/portal/store"
	"github.com/sohailc94/agmaportal/pkg/httpx"
	"github.com/sohailc94/agmaportal/pkg/slogx"

	_ "github.com/sohailc94/agmaportal/api/portal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	identitySecret []byte
	webhookSecret  string
	buildVersion   string
	startTime      time.Time
	logger         *slog.Logger

	store            store.Store
	InviteService    *service.InviteService
	ProfileService   *service.ProfileService
	FranchiseService *service.FranchiseService
	StudentService   *service.StudentService
	ClassService     *service.ClassService
	AvatarService    *service.AvatarService
}

func NewRouter(
	identitySecret []byte,
	webhookSecret, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		identitySecret: identitySecret,
		webhookSecret:  webhookSecret,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerWebhooks()
	r.registerInvites()
	r.registerInstructors()
	r.registerFranchises()
	r.registerStudents()
	r.registerClasses()
	r.registerProfiles()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AGMA Portal API
//	@version		0.1.0
//	@description	Membership portal for a multi-location martial arts academy:
//	@description	franchises, student enrolment, class scheduling, belt awards,
//	@description	and the instructor invite workflow driven by a CRM webhook.
//
//	@contact.name				AGMA Portal
//	@contact.url				https://github.com/sohailc94/agmaportal
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token minted by the identity provider. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerWebhooks() {
	h := &GHLWebhookHandler{
		InviteService: r.InviteService,
		Secret:        r.webhookSecret,
	}

	// The CRM calls this directly; no bearer auth, strict IP rate limit.
	r.Mux.Handle("POST /v1/webhooks/ghl/instructor-completed",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{
		InviteService:  r.InviteService,
		ProfileService: r.ProfileService,
	}

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.identitySecret),
		httpx.RequireAnyRole(string(domain.RoleFranchiseOwner), string(domain.RoleHQ)),
		httpx.RateLimitByProfile(httpx.ModerateLimit),
	)

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.identitySecret),
		httpx.RequireAnyRole(string(domain.RoleFranchiseOwner), string(domain.RoleHQ)),
		httpx.RateLimitByProfile(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/invites", securedCreate)
	r.Mux.Handle("GET /v1/invites", securedList)
}

func (r *Router) registerInstructors() {
	h := &InstructorsHandler{
		InviteService:  r.InviteService,
		ProfileService: r.ProfileService,
	}

	securedDeactivate := httpx.Chain(http.HandlerFunc(h.HandleDeactivate),
		httpx.AuthnMiddleware(r.identitySecret),
		httpx.RequireAnyRole(string(domain.RoleFranchiseOwner), string(domain.RoleHQ)),
		httpx.RateLimitByProfile(httpx.ModerateLimit),
	)

	securedAssignable := httpx.Chain(http.HandlerFunc(h.HandleAssignable),
		httpx.AuthnMiddleware(r.identitySecret),
		httpx.RequireAnyRole(string(domain.RoleFranchiseOwner), string(domain.RoleHQ)),
		httpx.RateLimitByProfile(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/instructors/deactivate", securedDeactivate)
	r.Mux.Handle("GET /v1/instructors/assignable", securedAssignable)
}

func (r *Router) registerFranchises() {
	h := &FranchisesHandler{FranchiseService: r.FranchiseService}

	hqOnly := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.identitySecret),
			httpx.RequireAnyRole(string(domain.RoleHQ)),
			httpx.RateLimitByProfile(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/franchises", hqOnly(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/franchises", hqOnly(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/franchises/overview", hqOnly(http.HandlerFunc(h.HandleOverview)))
	r.Mux.Handle("GET /v1/franchises/{id}", hqOnly(http.HandlerFunc(h.HandleGet)))
}

func (r *Router) registerStudents() {
	h := &StudentsHandler{
		StudentService: r.StudentService,
		ProfileService: r.ProfileService,
	}

	staff := []string{
		string(domain.RoleFranchiseOwner),
		string(domain.RoleInstructor),
		string(domain.RoleHQ),
	}

	staffOnly := func(next http.Handler, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.identitySecret),
			httpx.RequireAnyRole(staff...),
			httpx.RateLimitByProfile(limit),
		)
	}

	r.Mux.Handle("POST /v1/students", staffOnly(http.HandlerFunc(h.HandleEnroll), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/students", staffOnly(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/students/search", staffOnly(http.HandlerFunc(h.HandleSearch), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/students/{id}", staffOnly(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/students/{id}/belts", staffOnly(http.HandlerFunc(h.HandleAwardBelt), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/students/{id}/notes", staffOnly(http.HandlerFunc(h.HandleAddNote), httpx.ModerateLimit))

	// Detail is also readable by the student themselves and their guardian;
	// the handler enforces record-level access.
	r.Mux.Handle("GET /v1/students/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDetail),
			httpx.AuthnMiddleware(r.identitySecret),
			httpx.RateLimitByProfile(httpx.LenientLimit),
		),
	)

	// Parent dashboard: every student linked to the caller's email.
	r.Mux.Handle("GET /v1/students/mine",
		httpx.Chain(http.HandlerFunc(h.HandleMine),
			httpx.AuthnMiddleware(r.identitySecret),
			httpx.RateLimitByProfile(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerClasses() {
	h := &ClassesHandler{
		ClassService:   r.ClassService,
		ProfileService: r.ProfileService,
	}

	ownerOnly := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.identitySecret),
			httpx.RequireAnyRole(string(domain.RoleFranchiseOwner), string(domain.RoleHQ)),
			httpx.RateLimitByProfile(httpx.ModerateLimit),
		)
	}

	anyStaff := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.identitySecret),
			httpx.RequireAnyRole(
				string(domain.RoleFranchiseOwner),
				string(domain.RoleInstructor),
				string(domain.RoleHQ),
			),
			httpx.RateLimitByProfile(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("POST /v1/classes", ownerOnly(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/classes", anyStaff(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/classes/{id}", anyStaff(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PUT /v1/classes/{id}", ownerOnly(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("POST /v1/classes/{id}/instructor", ownerOnly(http.HandlerFunc(h.HandleAssignInstructor)))
}

func (r *Router) registerProfiles() {
	h := &ProfilesHandler{
		ProfileService: r.ProfileService,
		StudentService: r.StudentService,
		AvatarService:  r.AvatarService,
	}

	authed := func(next http.Handler, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.identitySecret),
			httpx.RateLimitByProfile(limit),
		)
	}

	r.Mux.Handle("GET /v1/me", authed(http.HandlerFunc(h.HandleMe), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/profiles", authed(http.HandlerFunc(h.HandleRegister), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/profiles/{id}/avatar", authed(http.HandlerFunc(h.HandleAvatarUpload), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/profiles/{id}/avatar-url", authed(http.HandlerFunc(h.HandleAvatarURL), httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
