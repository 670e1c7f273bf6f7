package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/aionx/connect-dashboard/backend"
	"github.com/aionx/connect-dashboard/connections"
	"github.com/aionx/connect-dashboard/dashboard"
	"github.com/aionx/connect-dashboard/internal/config"
	"github.com/aionx/connect-dashboard/server/loginsession"
	"github.com/aionx/connect-dashboard/session"
)

// Server is the view shell: it decides between public and protected screens
// from the Session Store state and mounts the list/form controllers for each
// browser login.
type Server struct {
	env           string // Environment (e.g., "DEV", "PROD")
	mux           *http.ServeMux
	routes        []string
	config        config.Config
	log           zerolog.Logger
	store         *session.Store
	repo          *connections.Repository
	loginSessions loginsession.Repo

	unsubscribe func()

	ctrlMu      sync.Mutex
	controllers map[string]*sessionControllers // login session ID -> controllers
	lastUserID  string                         // backend identity behind the mounted controllers
}

// sessionControllers are the per-login view-state coordinators.
type sessionControllers struct {
	flash *FlashBuffer
	list  *dashboard.ListController
	form  *dashboard.FormController
}

func New(cfg config.Config, log zerolog.Logger, client backend.Client, loginSessionRepo loginsession.Repo) (*Server, error) {
	if client == nil {
		return nil, errors.New("[Server New] backend client is required")
	}
	if loginSessionRepo == nil {
		loginSessionRepo = loginsession.NewInMemoryRepo()
	}

	store, err := session.NewStore(client, session.WithLogger(log))
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] session.NewStore")
	}

	repo, err := connections.NewRepository(client)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] connections.NewRepository")
	}

	s := &Server{
		mux:           http.NewServeMux(),
		config:        cfg,
		log:           log,
		store:         store,
		repo:          repo,
		loginSessions: loginSessionRepo,
		controllers:   make(map[string]*sessionControllers),
	}
	s.env = cfg.GetEnv()

	// Resolve the initial backend session before serving.
	s.store.Start(context.Background())
	s.unsubscribe = s.store.Subscribe(s.onSessionChange)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close unhooks the Session Store observer and closes every mounted
// controller.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.store.Stop()

	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()
	for id, ctrl := range s.controllers {
		ctrl.list.Close()
		delete(s.controllers, id)
	}
}

// onSessionChange reacts to backend session transitions. A sign-out (or
// expiry) unmounts all controllers so in-flight results are dropped, and
// invalidates the cookie sessions.
func (s *Server) onSessionChange(current session.Session) {
	if current.Loading {
		return
	}

	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	if current.Identity != nil {
		s.lastUserID = current.Identity.ID
		return
	}

	for id, ctrl := range s.controllers {
		ctrl.list.Close()
		delete(s.controllers, id)
	}
	if s.lastUserID != "" {
		_ = s.loginSessions.DeleteByUser(s.lastUserID)
		s.lastUserID = ""
	}
}

// controllersFor mounts (or returns) the list/form controllers for a login
// session.
func (s *Server) controllersFor(sessionID string) (*sessionControllers, error) {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	if ctrl, ok := s.controllers[sessionID]; ok {
		return ctrl, nil
	}

	flash := NewFlashBuffer()

	list, err := dashboard.NewListController(s.repo, flash)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.controllersFor] NewListController")
	}

	form, err := dashboard.NewFormController(s.repo, flash)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.controllersFor] NewFormController")
	}

	ctrl := &sessionControllers{flash: flash, list: list, form: form}
	s.controllers[sessionID] = ctrl
	return ctrl, nil
}

// unmountControllers tears down a login session's controllers, typically on
// logout.
func (s *Server) unmountControllers(sessionID string) {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	if ctrl, ok := s.controllers[sessionID]; ok {
		ctrl.list.Close()
		delete(s.controllers, sessionID)
	}
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	s.log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
