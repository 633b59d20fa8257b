package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/api/server"
	cr "github.com/Leopold1975/blog_api/internal/blog/repository/commentrepo/postgres"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postcache/redis"
	pr "github.com/Leopold1975/blog_api/internal/blog/repository/postrepo/postgres"
	tr "github.com/Leopold1975/blog_api/internal/blog/repository/tagrepo/postgres"
	ur "github.com/Leopold1975/blog_api/internal/blog/repository/userrepo/postgres"
	"github.com/Leopold1975/blog_api/internal/blog/services/authservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/commentservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/postservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/tagservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/userservice"
	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
	"github.com/Leopold1975/blog_api/internal/pkg/redistools"
	"github.com/Leopold1975/blog_api/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type BlogApp struct {
	s   Server
	db  *pgxpool.Pool
	rdb *goredis.Client
	lg  logger.Logger
	cfg config.Config
}

func New(ctx context.Context, cfg config.Config) (BlogApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return BlogApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	db, err := pgtools.Connect(ctx, cfg.PostgresDB.ConnString())
	if err != nil {
		return BlogApp{}, fmt.Errorf("postgres initializing error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg.PostgresDB); err != nil {
		db.Close()

		return BlogApp{}, fmt.Errorf("apply migration error: %w", err)
	}

	rdb, err := redistools.NewClient(ctx, cfg.RedisCache)
	if err != nil {
		db.Close()

		return BlogApp{}, fmt.Errorf("redis initializing error: %w", err)
	}

	userRepo := ur.New(db)
	postRepo := pr.New(db)
	commentRepo := cr.New(db)
	tagRepo := tr.New(db)
	postCache := redis.New(rdb, cfg.RedisCache.ExpTime)

	s := server.New(cfg.Server, cfg.Blog, server.Services{
		Auth:     authservice.New(userRepo, cfg.Auth),
		Users:    userservice.New(userRepo),
		Posts:    postservice.New(postRepo, tagRepo, postCache, cfg.Blog, lg),
		Comments: commentservice.New(commentRepo, postRepo, cfg.Blog),
		Tags:     tagservice.New(tagRepo, cfg.Blog),
		Health:   userRepo,
	}, lg)

	return BlogApp{
		s:   s,
		db:  db,
		rdb: rdb,
		lg:  lg,
		cfg: cfg,
	}, nil
}

func (ba *BlogApp) Run(ctx context.Context) {
	ba.lg.Infof("STARTED SERVER ON %s", ba.cfg.Server.Addr)

	go func() {
		if err := ba.s.Start(ctx); err != nil {
			ba.lg.Errorf("server start error: %s", err.Error())
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ba.Stop(ctxS); err != nil { //nolint:contextcheck
		ba.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

// Stop shuts the server down before releasing the pool and the redis client.
func (ba *BlogApp) Stop(ctx context.Context) error {
	defer ba.lg.Sync() //nolint:errcheck

	if err := ba.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := ba.rdb.Close(); err != nil {
		ba.lg.Errorf("redis close error: %s", err.Error())
	}

	ba.db.Close()

	ba.lg.Info("Shutdowned successfully")

	return nil
}
