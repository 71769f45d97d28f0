package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goto/salt/audit"
	"golang.org/x/oauth2"

	"github.com/linkhive/linkhive/core/identity"
	"github.com/linkhive/linkhive/core/siteconfig"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/log"
)

//go:generate mockery --name=siteConfigService --exported --with-expecter
type siteConfigService interface {
	Create(ctx context.Context, form *domain.SiteConfigForm) (*domain.SiteConfig, error)
	Update(ctx context.Context, id string, form *domain.SiteConfigForm) (*domain.SiteConfig, error)
	Find(ctx context.Context, filter domain.ListSiteConfigsFilter) ([]*domain.SiteConfig, error)
	GetByID(ctx context.Context, id string) (*domain.SiteConfig, error)
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name=siteConfigProber --exported --with-expecter
type siteConfigProber interface {
	Probe(ctx context.Context, sc *domain.SiteConfig, username, password string) (*siteconfig.ProbeResult, error)
}

//go:generate mockery --name=credentialService --exported --with-expecter
type credentialService interface {
	Create(ctx context.Context, c *domain.Credential) error
	Update(ctx context.Context, c *domain.Credential) error
	Find(ctx context.Context, filter domain.ListCredentialsFilter) ([]*domain.Credential, error)
	GetByID(ctx context.Context, id string) (*domain.Credential, error)
	Reveal(ctx context.Context, id string) (*domain.Credential, error)
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name=feedService --exported --with-expecter
type feedService interface {
	Create(ctx context.Context, f *domain.Feed) error
	Update(ctx context.Context, f *domain.Feed) error
	Find(ctx context.Context, filter domain.ListFeedsFilter) ([]*domain.Feed, error)
	GetByID(ctx context.Context, id string) (*domain.Feed, error)
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name=bookmarkService --exported --with-expecter
type bookmarkService interface {
	Create(ctx context.Context, b *domain.Bookmark) error
	Update(ctx context.Context, b *domain.Bookmark) error
	Find(ctx context.Context, filter domain.ListBookmarksFilter) ([]*domain.Bookmark, error)
	GetByID(ctx context.Context, id string) (*domain.Bookmark, error)
	Archive(ctx context.Context, id string, archived bool) error
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name=userService --exported --with-expecter
type userService interface {
	Create(ctx context.Context, u *domain.User) error
	UpdateRole(ctx context.Context, id string, role domain.UserRole) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
	Find(ctx context.Context, filter domain.ListUsersFilter) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name=identityService --exported --with-expecter
type identityService interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*identity.Profile, *oauth2.Token, error)
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

//go:generate mockery --name=auditLogLister --exported --with-expecter
type auditLogLister interface {
	List(ctx context.Context, filter *domain.ListAuditLogsFilter) ([]*audit.Log, error)
}

type Handler struct {
	siteConfigService siteConfigService
	prober            siteConfigProber
	credentialService credentialService
	feedService       feedService
	bookmarkService   bookmarkService
	userService       userService
	identityService   identityService
	auditLogLister    auditLogLister

	logger log.Logger
}

type HandlerDeps struct {
	SiteConfigService siteConfigService
	Prober            siteConfigProber
	CredentialService credentialService
	FeedService       feedService
	BookmarkService   bookmarkService
	UserService       userService
	IdentityService   identityService
	AuditLogLister    auditLogLister

	Logger log.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		deps.SiteConfigService,
		deps.Prober,
		deps.CredentialService,
		deps.FeedService,
		deps.BookmarkService,
		deps.UserService,
		deps.IdentityService,
		deps.AuditLogLister,

		deps.Logger,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/site-configs", func(r chi.Router) {
		r.Get("/", h.listSiteConfigs)
		r.Post("/", h.createSiteConfig)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getSiteConfig)
			r.Put("/", h.updateSiteConfig)
			r.Delete("/", h.deleteSiteConfig)
			r.Post("/probe", h.probeSiteConfig)
		})
	})

	r.Route("/credentials", func(r chi.Router) {
		r.Get("/", h.listCredentials)
		r.Post("/", h.createCredential)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getCredential)
			r.Put("/", h.updateCredential)
			r.Delete("/", h.deleteCredential)
			r.Get("/reveal", h.revealCredential)
		})
	})

	r.Route("/feeds", func(r chi.Router) {
		r.Get("/", h.listFeeds)
		r.Post("/", h.createFeed)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getFeed)
			r.Put("/", h.updateFeed)
			r.Delete("/", h.deleteFeed)
		})
	})

	r.Route("/bookmarks", func(r chi.Router) {
		r.Get("/", h.listBookmarks)
		r.Post("/", h.createBookmark)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getBookmark)
			r.Put("/", h.updateBookmark)
			r.Delete("/", h.deleteBookmark)
			r.Put("/archive", h.archiveBookmark)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.listUsers)
		r.Post("/", h.createUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getUser)
			r.Delete("/", h.deleteUser)
			r.Put("/role", h.updateUserRole)
			r.Put("/disabled", h.setUserDisabled)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.authLoginURL)
		r.Post("/token", h.exchangeAuthCode)
		r.Post("/refresh", h.refreshAuthToken)
	})

	r.Get("/audit-logs", h.listAuditLogs)

	return r
}

type auditLogResponse struct {
	Timestamp time.Time   `json:"timestamp"`
	Action    string      `json:"action"`
	Actor     string      `json:"actor"`
	Data      interface{} `json:"data,omitempty"`
}

func (h *Handler) listAuditLogs(w http.ResponseWriter, r *http.Request) {
	filter := &domain.ListAuditLogsFilter{
		Actions: queryValues(r, "actions"),
		Actor:   r.URL.Query().Get("actor"),
		Size:    queryInt(r, "size"),
	}

	logs, err := h.auditLogLister.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "failed to list audit logs", err)
		return
	}

	records := make([]auditLogResponse, 0, len(logs))
	for _, l := range logs {
		records = append(records, auditLogResponse{
			Timestamp: l.Timestamp,
			Action:    l.Action,
			Actor:     l.Actor,
			Data:      l.Data,
		})
	}
	writeJSON(w, http.StatusOK, records)
}
