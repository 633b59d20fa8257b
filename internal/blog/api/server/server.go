package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/services/authservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/commentservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/postservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/tagservice"
	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/Leopold1975/blog_api/internal/pkg/validation"
	"github.com/Leopold1975/blog_api/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	BaseURL = "/api/v1"
	Version = "1.0.0"
)

type Server struct {
	serv *http.Server

	authService    AuthService
	userService    UserService
	postService    PostService
	commentService CommentService
	tagService     TagService
	health         HealthChecker

	validator *validation.Validator
	maxLimit  int
	lg        logger.Logger
}

type AuthService interface {
	Register(context.Context, authservice.RegisterRequest) (models.User, error)
	Login(context.Context, authservice.LoginRequest) (string, error)
	Authenticate(context.Context, string) (models.User, error)
}

type UserService interface {
	GetUser(context.Context, int64) (models.User, error)
}

type PostService interface {
	CreatePost(context.Context, models.User, postservice.CreatePostRequest) (models.Post, error)
	GetPost(context.Context, int64) (models.Post, error)
	ListPosts(context.Context, models.Page) ([]models.Post, error)
	UpdatePost(context.Context, models.User, int64, postservice.UpdatePostRequest) (models.Post, error)
	DeletePost(context.Context, models.User, int64) error
}

type CommentService interface {
	CreateComment(context.Context, models.User, commentservice.CreateCommentRequest) (models.Comment, error)
	GetComment(context.Context, int64) (models.Comment, error)
	ListCommentsByPost(context.Context, int64, models.Page) ([]models.Comment, error)
	UpdateComment(context.Context, models.User, int64, commentservice.UpdateCommentRequest) (models.Comment, error)
	DeleteComment(context.Context, models.User, int64) error
}

type TagService interface {
	CreateTag(context.Context, tagservice.CreateTagRequest) (models.Tag, error)
	ListTags(context.Context, models.Page) ([]models.Tag, error)
}

type HealthChecker interface {
	Ping(context.Context) error
}

type Services struct {
	Auth     AuthService
	Users    UserService
	Posts    PostService
	Comments CommentService
	Tags     TagService
	Health   HealthChecker
}

func New(cfg config.Server, blogCfg config.Blog, svc Services, lg logger.Logger) *Server {
	s := &Server{ //nolint:exhaustruct
		authService:    svc.Auth,
		userService:    svc.Users,
		postService:    svc.Posts,
		commentService: svc.Comments,
		tagService:     svc.Tags,
		health:         svc.Health,
		validator:      validation.New(),
		maxLimit:       blogCfg.MaxPageSize,
		lg:             lg,
	}

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(timingMiddleware(s.lg), middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.handleError(w, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write(Error{Err: "method not allowed"}.ToJSON()) //nolint:errcheck,exhaustruct
	})

	r.Get("/", s.GetRoot)
	r.Get("/health", s.GetHealth)

	r.Route(BaseURL, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.PostRegister)
			r.Post("/login", s.PostLogin)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(s.authMiddleware).Get("/me", s.GetMe)
			r.Get("/{id}", s.GetUser)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.GetPosts)
			r.Get("/{id}", s.GetPost)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Post("/", s.PostPost)
				r.Put("/{id}", s.PutPost)
				r.Patch("/{id}", s.PutPost)
				r.Delete("/{id}", s.DeletePost)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/post/{id}", s.GetPostComments)
			r.Get("/{id}", s.GetComment)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Post("/", s.PostComment)
				r.Put("/{id}", s.PutComment)
				r.Delete("/{id}", s.DeleteComment)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.GetTags)
			r.With(s.authMiddleware).Post("/", s.PostTag)
		})
	})

	return r
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

// (GET /).
func (s *Server) GetRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, InfoResponse{Message: "Welcome to Blog API", Version: Version})
}

// (GET /health).
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Ping(r.Context()); err != nil {
		s.lg.Errorf("health check error: %s", err.Error())
		s.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Service: "blog-api"})

		return
	}

	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Service: "blog-api"})
}
