package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/testutil"
)

func setupCommentRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()

	env := newTestEnv(t)
	h := NewCommentHandler(env.Comments)

	router := gin.New()
	router.GET("/blogs/:id/comments", h.List)

	auth := authed(router)
	auth.POST("/blogs/:id/comments", h.Create)
	auth.PUT("/comments/:id", h.Update)
	auth.DELETE("/comments/:id", h.Delete)

	return router, env
}

func TestCommentHandler_CreateAndList(t *testing.T) {
	router, env := setupCommentRouter(t)
	author := testutil.TestUser(t, env.DB)
	commenter := testutil.TestUser(t, env.DB, testutil.WithUsername("commenter"))
	blog := testutil.TestBlog(t, env.DB, author.ID)
	path := fmt.Sprintf("/blogs/%d/comments", blog.ID)

	w := performAuthedRequest(router, "POST", path, env.token(t, commenter.ID), dto.CreateCommentRequest{Comment: "Great post!"})
	require.Equal(t, http.StatusCreated, w.Code)
	var item dto.CommentItem
	decodeData(t, w, &item)
	assert.Equal(t, "Great post!", item.Comment)
	assert.Equal(t, "commenter", item.User.Username)

	testutil.TestComment(t, env.DB, author.ID, blog.ID, "Thanks")

	w = performRequest(router, "GET", path+"?page=1&page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page response.PageData
	decodeData(t, w, &page)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.PageSize)
}

func TestCommentHandler_Errors(t *testing.T) {
	router, env := setupCommentRouter(t)
	user := testutil.TestUser(t, env.DB)
	token := env.token(t, user.ID)

	w := performAuthedRequest(router, "POST", "/blogs/99999/comments", token, dto.CreateCommentRequest{Comment: "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, "GET", "/blogs/99999/comments", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performAuthedRequest(router, "POST", "/blogs/1/comments", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentHandler_UpdateDelete_OwnerOnly(t *testing.T) {
	router, env := setupCommentRouter(t)
	owner := testutil.TestUser(t, env.DB)
	other := testutil.TestUser(t, env.DB)
	blog := testutil.TestBlog(t, env.DB, owner.ID)
	comment := testutil.TestComment(t, env.DB, owner.ID, blog.ID, "original")
	path := fmt.Sprintf("/comments/%d", comment.ID)

	w := performAuthedRequest(router, "PUT", path, env.token(t, other.ID), dto.UpdateCommentRequest{Comment: "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performAuthedRequest(router, "PUT", path, env.token(t, owner.ID), dto.UpdateCommentRequest{Comment: "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	var item dto.CommentItem
	decodeData(t, w, &item)
	assert.Equal(t, "edited", item.Comment)

	w = performAuthedRequest(router, "DELETE", path, env.token(t, other.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performAuthedRequest(router, "DELETE", path, env.token(t, owner.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performAuthedRequest(router, "DELETE", path, env.token(t, owner.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
