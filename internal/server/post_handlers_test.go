package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_Success(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	createGroup(t, db, "golang")

	resp := doPostForm(t, app, "/create", authToken(t, alice.ID), url.Values{
		"text":  {"hello world"},
		"group": {"golang"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/profile/alice", resp.Header.Get("Location"))

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "hello world", post.Text)
	assert.Equal(t, alice.ID, post.AuthorID)
	require.NotNil(t, post.GroupID)
}

func TestCreatePost_GroupIsOptional(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	resp := doPostForm(t, app, "/create", authToken(t, alice.ID), url.Values{
		"text": {"no group here"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Nil(t, post.GroupID)
}

func TestCreatePost_EmptyTextWritesNothing(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	resp := doPostForm(t, app, "/create", authToken(t, alice.ID), url.Values{
		"text": {"   "},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Fields, "text")

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePost_UnknownGroupIsFieldError(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	resp := doPostForm(t, app, "/create", authToken(t, alice.ID), url.Values{
		"text":  {"hello"},
		"group": {"does-not-exist"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Fields, "group")

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePost_AnonymousRedirectsToLogin(t *testing.T) {
	_, app, _ := newTestServer(t, nil)

	resp := doPostForm(t, app, "/create", "", url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Fcreate", resp.Header.Get("Location"))
}

func TestEditPost_AuthorCanEdit(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	post := createPost(t, db, alice, nil, "original", created)

	resp := doPostForm(t, app, fmt.Sprintf("/posts/%d/edit", post.ID), authToken(t, alice.ID), url.Values{
		"text": {"revised"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "revised", reloaded.Text)
	// Editing never rewrites the creation time, so feed position is stable.
	assert.True(t, reloaded.CreatedAt.Equal(created))
}

func TestEditPost_NonAuthorRedirectedWithoutChange(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, nil, "original", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	resp := doPostForm(t, app, fmt.Sprintf("/posts/%d/edit", post.ID), authToken(t, bob.ID), url.Values{
		"text": {"hijacked"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "original", reloaded.Text)
}

func TestDeletePost_RemovesPostAndComments(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, nil, "doomed", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, AuthorID: bob.ID, Text: "nice"}).Error)

	resp := doPostForm(t, app, fmt.Sprintf("/posts/%d/delete", post.ID), authToken(t, alice.ID), nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var postCount, commentCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&commentCount).Error)
	assert.Zero(t, postCount)
	assert.Zero(t, commentCount)
}

func TestDeletePost_NonAuthorRedirectedWithoutChange(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, nil, "survives", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	resp := doPostForm(t, app, fmt.Sprintf("/posts/%d/delete", post.ID), authToken(t, bob.ID), nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPostDetail_IncludesCommentsNewestFirst(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, nil, "discuss", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	base := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, AuthorID: bob.ID, Text: "first", CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, AuthorID: alice.ID, Text: "second", CreatedAt: base.Add(time.Minute)}).Error)

	resp := doGet(t, app, fmt.Sprintf("/posts/%d", post.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Post     models.Post      `json:"post"`
		Comments []models.Comment `json:"comments"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, "discuss", body.Post.Text)
	require.Len(t, body.Comments, 2)
	assert.Equal(t, "second", body.Comments[0].Text)
	assert.Equal(t, "bob", body.Comments[1].Author.Username)
}

func TestPostDetail_UnknownIDIs404(t *testing.T) {
	_, app, _ := newTestServer(t, nil)

	resp := doGet(t, app, "/posts/9999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostDetail_MalformedIDIs400(t *testing.T) {
	_, app, _ := newTestServer(t, nil)

	resp := doGet(t, app, "/posts/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddComment_Success(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, nil, "discuss", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	resp := doPostForm(t, app, fmt.Sprintf("/posts/%d/comment", post.ID), authToken(t, bob.ID), url.Values{
		"text": {"  well said  "},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)
	assert.Equal(t, "well said", comment.Text)
	assert.Equal(t, bob.ID, comment.AuthorID)
}

func TestAddComment_UnknownPostIs404(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	bob := createUser(t, db, "bob")
	resp := doPostForm(t, app, "/posts/424242/comment", authToken(t, bob.ID), url.Values{
		"text": {"hello?"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddComment_EmptyTextIsFieldError(t *testing.T) {
	_, app, db := newTestServer(t, nil)

	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice, nil, "discuss", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	resp := doPostForm(t, app, fmt.Sprintf("/posts/%d/comment", post.ID), authToken(t, alice.ID), url.Values{
		"text": {"   "},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
