package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/repository"
	"github.com/qs3c/blogmind_server/internal/testutil"
)

func setupBlogService(t *testing.T) (*BlogService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	return NewBlogService(repository.NewBlogRepository(db), repository.NewLikeRepository(db)), db
}

func TestBlogService_Create(t *testing.T) {
	service, db := setupBlogService(t)
	user := testutil.TestUser(t, db)

	item, err := service.Create(user.ID, &dto.CreateBlogRequest{
		Heading:     "  Writing Go Services  ",
		Description: "body",
		ImageURL:    "https://images.example.com/a.jpg",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Writing Go Services", item.Heading)
	assert.False(t, item.IsAIGenerated)

	_, err = service.Create(user.ID, &dto.CreateBlogRequest{Heading: "   ", Description: "x"})
	assert.Equal(t, ErrInvalidHeading, err)
}

func TestBlogService_Get(t *testing.T) {
	service, db := setupBlogService(t)
	author := testutil.TestUser(t, db, testutil.WithUsername("author"))
	viewer := testutil.TestUser(t, db)
	blog := testutil.TestBlog(t, db, author.ID)
	testutil.TestLike(t, db, viewer.ID, blog.ID)
	testutil.TestComment(t, db, viewer.ID, blog.ID, "nice")

	item, err := service.Get(blog.ID, &viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.LikeCount)
	assert.Equal(t, int64(1), item.CommentCount)
	assert.True(t, item.Liked)
	require.NotNil(t, item.Author)
	assert.Equal(t, "author", item.Author.Username)

	anon, err := service.Get(blog.ID, nil)
	require.NoError(t, err)
	assert.False(t, anon.Liked)

	_, err = service.Get(99999, nil)
	assert.Equal(t, ErrBlogNotFound, err)
}

func TestBlogService_List(t *testing.T) {
	service, db := setupBlogService(t)
	a := testutil.TestUser(t, db)
	b := testutil.TestUser(t, db)

	now := time.Now()
	oldest := testutil.TestBlog(t, db, a.ID, testutil.WithCreatedAt(now.Add(-2*time.Hour)))
	middle := testutil.TestBlog(t, db, b.ID, testutil.WithCreatedAt(now.Add(-time.Hour)))
	newest := testutil.TestBlog(t, db, a.ID, testutil.WithCreatedAt(now), testutil.WithAIGenerated())

	items, total, err := service.List(&dto.BlogListRequest{Page: 1, PageSize: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{newest.ID, middle.ID, oldest.ID}, []int64{items[0].ID, items[1].ID, items[2].ID})
	assert.True(t, items[0].IsAIGenerated)

	page2, total, err := service.List(&dto.BlogListRequest{Page: 2, PageSize: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page2, 1)
	assert.Equal(t, oldest.ID, page2[0].ID)

	mine, total, err := service.ListMine(a.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, mine, 2)
}

func TestBlogService_Update(t *testing.T) {
	service, db := setupBlogService(t)
	author := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	blog := testutil.TestBlog(t, db, author.ID)

	heading := "Updated heading"
	item, err := service.Update(author.ID, blog.ID, &dto.UpdateBlogRequest{Heading: &heading})
	require.NoError(t, err)
	assert.Equal(t, heading, item.Heading)
	assert.Equal(t, blog.Description, item.Description)

	_, err = service.Update(other.ID, blog.ID, &dto.UpdateBlogRequest{Heading: &heading})
	assert.Equal(t, ErrBlogPermission, err)

	blank := " "
	_, err = service.Update(author.ID, blog.ID, &dto.UpdateBlogRequest{Heading: &blank})
	assert.Equal(t, ErrInvalidHeading, err)

	_, err = service.Update(author.ID, 99999, &dto.UpdateBlogRequest{Heading: &heading})
	assert.Equal(t, ErrBlogNotFound, err)
}

func TestBlogService_Delete(t *testing.T) {
	service, db := setupBlogService(t)
	author := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	blog := testutil.TestBlog(t, db, author.ID)
	testutil.TestLike(t, db, other.ID, blog.ID)
	testutil.TestComment(t, db, other.ID, blog.ID, "hi")

	assert.Equal(t, ErrBlogPermission, service.Delete(other.ID, blog.ID))

	require.NoError(t, service.Delete(author.ID, blog.ID))

	var likes, comments int64
	db.Model(&model.Like{}).Where("blog_id = ?", blog.ID).Count(&likes)
	db.Model(&model.Comment{}).Where("blog_id = ?", blog.ID).Count(&comments)
	assert.Zero(t, likes)
	assert.Zero(t, comments)

	_, err := service.Get(blog.ID, nil)
	assert.Equal(t, ErrBlogNotFound, err)
}

func TestBlogService_ToggleLike(t *testing.T) {
	service, db := setupBlogService(t)
	author := testutil.TestUser(t, db)
	liker := testutil.TestUser(t, db)
	blog := testutil.TestBlog(t, db, author.ID)

	resp, err := service.ToggleLike(liker.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.Equal(t, int64(1), resp.LikeCount)

	resp, err = service.ToggleLike(liker.ID, blog.ID)
	require.NoError(t, err)
	assert.False(t, resp.Liked)
	assert.Equal(t, int64(0), resp.LikeCount)

	_, err = service.ToggleLike(liker.ID, 99999)
	assert.Equal(t, ErrBlogNotFound, err)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{-3, 5, 1, 5},
		{2, 500, 2, maxPageSize},
	}
	for _, tt := range tests {
		p, s := normalizePage(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, p)
		assert.Equal(t, tt.wantSize, s)
	}
}
