package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/api/server"
	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/memory"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postcache/redis"
	"github.com/Leopold1975/blog_api/internal/blog/repository/userrepo"
	"github.com/Leopold1975/blog_api/internal/blog/services/authservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/commentservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/postservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/tagservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/userservice"
	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
	"github.com/Leopold1975/blog_api/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

const secret = "test-secret-0123456789-abcdefghijklmnop"

type pinger struct {
	err error
}

func (p *pinger) Ping(context.Context) error { return p.err }

type ServerSuite struct {
	suite.Suite

	store   *memory.Store
	auth    *authservice.AuthService
	health  *pinger
	handler http.Handler
}

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s.T().Cleanup(func() { rdb.Close() })

	blogCfg := config.Blog{DefaultPageSize: 10, MaxPageSize: 100}
	lg := logger.NewNop()

	s.store = memory.New()
	s.auth = authservice.New(s.store, config.Auth{TTL: time.Minute, Secret: secret})
	s.health = &pinger{}

	srv := server.New(config.Server{Addr: ":0"}, blogCfg, server.Services{
		Auth:     s.auth,
		Users:    userservice.New(s.store),
		Posts:    postservice.New(s.store, s.store, redis.New(rdb, time.Minute), blogCfg, lg),
		Comments: commentservice.New(s.store, s.store, blogCfg),
		Tags:     tagservice.New(s.store, blogCfg),
		Health:   s.health,
	}, lg)

	s.handler = srv.Handler()
}

func (s *ServerSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer

	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	return rr
}

func (s *ServerSuite) decode(rr *httptest.ResponseRecorder, dst interface{}) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

func (s *ServerSuite) register(email, username string) {
	rr := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": "pass1234",
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
}

func (s *ServerSuite) login(username string) string {
	form := url.Values{"username": {username}, "password": {"pass1234"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp server.TokenResponse
	s.decode(rr, &resp)
	s.Require().Equal("bearer", resp.TokenType)
	s.Require().NotEmpty(resp.AccessToken)

	return resp.AccessToken
}

func (s *ServerSuite) createPost(token, title string) models.Post {
	rr := s.do(http.MethodPost, "/api/v1/posts", token, map[string]string{"title": title, "content": "body"})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var p models.Post
	s.decode(rr, &p)

	return p
}

func (s *ServerSuite) TestAuthorshipScenario() {
	s.register("a@b.com", "a")
	tokenA := s.login("a")

	p := s.createPost(tokenA, "first")
	s.NotZero(p.ID)

	s.register("other@b.com", "other")
	tokenB := s.login("other")

	path := fmt.Sprintf("/api/v1/posts/%d", p.ID)

	rr := s.do(http.MethodDelete, path, tokenB, nil)
	s.Equal(http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodPut, path, tokenB, map[string]string{"title": "mine now"})
	s.Equal(http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodPut, path, tokenA, map[string]string{"title": "edited"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var updated models.Post
	s.decode(rr, &updated)
	s.Equal("edited", updated.Title)
	s.Equal("body", updated.Content)

	rr = s.do(http.MethodDelete, path, tokenA, nil)
	s.Equal(http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, path, "", nil)
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/posts", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`[]`, rr.Body.String())

	stored, err := s.store.GetPost(context.Background(), p.ID, pgtools.ReadOptions{WithDeleted: true})
	s.Require().NoError(err)
	s.True(stored.IsDeleted)
}

func (s *ServerSuite) TestRegisterConflictsAndValidation() {
	s.register("a@b.com", "alice")

	rr := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "a@b.com", "username": "someone", "password": "pass1234",
	})
	s.Equal(http.StatusConflict, rr.Code)
	s.Contains(rr.Body.String(), "email already registered")

	rr = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "c@d.com", "username": "ALICE", "password": "pass1234",
	})
	s.Equal(http.StatusConflict, rr.Code)

	_, err := s.store.GetUserByUsername(context.Background(), "someone")
	s.ErrorIs(err, userrepo.ErrNotFound)

	rr = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "c@d.com", "username": "carol", "password": "pass1234",
	})
	s.Equal(http.StatusCreated, rr.Code)

	rr = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "not-an-email", "username": "bad name", "password": "short",
	})
	s.Require().Equal(http.StatusUnprocessableEntity, rr.Code)

	var e server.Error
	s.decode(rr, &e)
	s.Contains(e.Fields, "email")
	s.Contains(e.Fields, "username")
	s.Contains(e.Fields, "password")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerSuite) TestLogin() {
	s.register("a@b.com", "alice")

	rr := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "Alice", "password": "pass1234"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "wrong-pass"})
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal("Bearer", rr.Header().Get("WWW-Authenticate"))

	rr = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice"})
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
}

func (s *ServerSuite) TestAuthentication() {
	s.register("a@b.com", "alice")
	token := s.login("alice")

	rr := s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	s.Require().Equal(http.StatusOK, rr.Code)

	var me models.User
	s.decode(rr, &me)
	s.Equal("alice", me.Username)
	s.NotContains(rr.Body.String(), "password")

	rr = s.do(http.MethodGet, "/api/v1/users/"+strconv.FormatInt(me.ID, 10), "", nil)
	s.Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/users/me", "", nil)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal("Bearer", rr.Header().Get("WWW-Authenticate"))

	rr = s.do(http.MethodGet, "/api/v1/users/me", "garbage", nil)
	s.Equal(http.StatusUnauthorized, rr.Code)

	expired, err := s.auth.IssueToken(me.ID, time.Now().Add(-time.Minute))
	s.Require().NoError(err)

	rr = s.do(http.MethodPost, "/api/v1/posts", expired, map[string]string{"title": "t", "content": "c"})
	s.Equal(http.StatusUnauthorized, rr.Code)

	s.Require().NoError(s.store.DeleteUser(context.Background(), me.ID, time.Now().UTC()))

	rr = s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	s.Equal(http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/users/"+strconv.FormatInt(me.ID, 10), "", nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *ServerSuite) TestPostsPagination() {
	s.register("a@b.com", "alice")
	token := s.login("alice")

	for i := 0; i < 5; i++ {
		s.createPost(token, fmt.Sprintf("post %d", i))
	}

	var first, second []models.Post

	rr := s.do(http.MethodGet, "/api/v1/posts?offset=0&limit=2", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &first)

	rr = s.do(http.MethodGet, "/api/v1/posts?skip=2&limit=2", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &second)

	var all []models.Post

	rr = s.do(http.MethodGet, "/api/v1/posts?limit=100", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &all)

	s.Require().Len(first, 2)
	s.Require().Len(second, 2)
	s.Require().Len(all, 5)
	s.Equal("post 4", first[0].Title)

	ids := func(posts []models.Post) []int64 {
		out := make([]int64, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}

		return out
	}

	s.Equal(ids(all[0:2]), ids(first))
	s.Equal(ids(all[2:4]), ids(second))

	rr = s.do(http.MethodGet, "/api/v1/posts?limit=0", "", nil)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/posts?limit=101", "", nil)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/posts?offset=-1", "", nil)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/posts?offset=1000", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`[]`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/v1/posts?skip=1001", "", nil)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	s.Contains(rr.Body.String(), "offset")

	rr = s.do(http.MethodGet, "/api/v1/comments/post/1?offset=1001", "", nil)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/posts?limit=abc", "", nil)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/posts/abc", "", nil)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
}

func (s *ServerSuite) TestPostTags() {
	s.register("a@b.com", "alice")
	token := s.login("alice")

	rr := s.do(http.MethodPost, "/api/v1/tags", "", map[string]string{"name": "go"})
	s.Equal(http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodPost, "/api/v1/tags", token, map[string]string{"name": "go"})
	s.Require().Equal(http.StatusCreated, rr.Code)

	var tag models.Tag
	s.decode(rr, &tag)

	rr = s.do(http.MethodPost, "/api/v1/tags", token, map[string]string{"name": "go"})
	s.Equal(http.StatusConflict, rr.Code)

	rr = s.do(http.MethodPost, "/api/v1/posts", token, map[string]interface{}{
		"title": "t", "content": "c", "tag_ids": []int64{tag.ID},
	})
	s.Require().Equal(http.StatusCreated, rr.Code)

	var p models.Post
	s.decode(rr, &p)
	s.Equal([]int64{tag.ID}, p.TagIDs())

	rr = s.do(http.MethodPost, "/api/v1/posts", token, map[string]interface{}{
		"title": "t", "content": "c", "tag_ids": []int64{tag.ID + 100},
	})
	s.Require().Equal(http.StatusUnprocessableEntity, rr.Code)

	var e server.Error
	s.decode(rr, &e)
	s.Contains(e.Fields, "tag_ids")

	rr = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/posts/%d", p.ID), token, map[string]interface{}{
		"tag_ids": []int64{},
	})
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &p)
	s.Empty(p.Tags)

	rr = s.do(http.MethodGet, "/api/v1/tags", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)

	var tags []models.Tag
	s.decode(rr, &tags)
	s.Len(tags, 1)
}

func (s *ServerSuite) TestComments() {
	s.register("a@b.com", "alice")
	s.register("b@b.com", "bob")
	alice, bob := s.login("alice"), s.login("bob")

	p := s.createPost(alice, "post")

	rr := s.do(http.MethodPost, "/api/v1/comments", bob, map[string]interface{}{"content": "hi", "post_id": p.ID})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var c models.Comment
	s.decode(rr, &c)

	rr = s.do(http.MethodPost, "/api/v1/comments", bob, map[string]interface{}{"content": "hi", "post_id": 9999})
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodPost, "/api/v1/comments", bob, map[string]interface{}{"content": "", "post_id": p.ID})
	s.Equal(http.StatusUnprocessableEntity, rr.Code)

	commentPath := fmt.Sprintf("/api/v1/comments/%d", c.ID)

	rr = s.do(http.MethodPut, commentPath, alice, map[string]string{"content": "edited"})
	s.Equal(http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodPut, commentPath, bob, map[string]string{"content": "edited"})
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, commentPath, "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &c)
	s.Equal("edited", c.Content)

	rr = s.do(http.MethodGet, fmt.Sprintf("/api/v1/comments/post/%d", p.ID), "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)

	var list []models.Comment
	s.decode(rr, &list)
	s.Len(list, 1)

	rr = s.do(http.MethodDelete, commentPath, alice, nil)
	s.Equal(http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodDelete, commentPath, bob, nil)
	s.Equal(http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, commentPath, "", nil)
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodGet, fmt.Sprintf("/api/v1/comments/post/%d", p.ID), "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`[]`, rr.Body.String())
}

func (s *ServerSuite) TestTimingHeaders() {
	for _, path := range []string{"/", "/api/v1/posts", "/api/v1/posts/999", "/nope"} {
		rr := s.do(http.MethodGet, path, "", nil)

		pt := rr.Header().Get("X-Process-Time")
		s.Regexp(`^\d+\.\d{4}$`, pt, path)
		s.NotEmpty(rr.Header().Get("X-Request-ID"), path)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	s.Equal("abc-123", rr.Header().Get("X-Request-ID"))
}

func (s *ServerSuite) TestHealth() {
	rr := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"status":"healthy","service":"blog-api"}`, rr.Body.String())

	s.health.err = errors.New("connection refused")

	rr = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusServiceUnavailable, rr.Code)
	s.NotEmpty(rr.Header().Get("X-Process-Time"))
}
