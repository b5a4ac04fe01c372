package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageRequiresAuth(t *testing.T) {
	app, _ := setupTestServer(t)

	resp := postForm(t, app, "/messages/new", url.Values{"text": {"Hello"}}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Contains(t, readFlashes(t, app, cookie), "Access unauthorized.")
}

func TestNewMessage(t *testing.T) {
	app, s := setupTestServer(t)
	cookie := signupUser(t, app, "testuser")
	user := userByName(t, s, "testuser")

	resp := postForm(t, app, "/messages/new", url.Values{"text": {"Hello"}}, cookie)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), resp.Header.Get("Location"))

	var msg models.Message
	require.NoError(t, s.db.First(&msg).Error)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, user.ID, msg.UserID)
}

func TestNewMessageValidation(t *testing.T) {
	app, s := setupTestServer(t)
	cookie := signupUser(t, app, "testuser")

	for _, text := range []string{"", "   ", strings.Repeat("a", models.MaxMessageLength+1)} {
		resp := postForm(t, app, "/messages/new", url.Values{"text": {text}}, cookie)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	}

	var count int64
	s.db.Model(&models.Message{}).Count(&count)
	assert.Zero(t, count)
}

func TestShowMessage(t *testing.T) {
	app, s := setupTestServer(t)
	signupUser(t, app, "author")
	author := userByName(t, s, "author")

	msg := &models.Message{Text: "on display", UserID: author.ID}
	require.NoError(t, s.db.Create(msg).Error)

	var body struct {
		Message models.Message `json:"message"`
	}
	decodeBody(t, get(t, app, fmt.Sprintf("/messages/%d", msg.ID), nil), &body)
	assert.Equal(t, "on display", body.Message.Text)
	assert.Equal(t, "author", body.Message.User.Username)
}

func TestShowMessageNotFound(t *testing.T) {
	app, _ := setupTestServer(t)
	resp := get(t, app, "/messages/99999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteMessage(t *testing.T) {
	app, s := setupTestServer(t)
	cookie := signupUser(t, app, "author")
	author := userByName(t, s, "author")

	msg := &models.Message{Text: "ephemeral", UserID: author.ID}
	require.NoError(t, s.db.Create(msg).Error)

	resp := postForm(t, app, fmt.Sprintf("/messages/%d/delete", msg.ID), nil, cookie)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var count int64
	s.db.Model(&models.Message{}).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteMessageAnonymous(t *testing.T) {
	app, s := setupTestServer(t)
	signupUser(t, app, "author")
	author := userByName(t, s, "author")

	msg := &models.Message{Text: "still here", UserID: author.ID}
	require.NoError(t, s.db.Create(msg).Error)

	resp := postForm(t, app, fmt.Sprintf("/messages/%d/delete", msg.ID), nil, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Contains(t, readFlashes(t, app, cookie), "Access unauthorized.")

	var count int64
	s.db.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteMessageByNonAuthor(t *testing.T) {
	app, s := setupTestServer(t)
	signupUser(t, app, "author")
	intruder := signupUser(t, app, "intruder")
	author := userByName(t, s, "author")

	msg := &models.Message{Text: "not yours", UserID: author.ID}
	require.NoError(t, s.db.Create(msg).Error)

	resp := postForm(t, app, fmt.Sprintf("/messages/%d/delete", msg.ID), nil, intruder)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Contains(t, readFlashes(t, app, intruder), "Access unauthorized.")

	var count int64
	s.db.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(1), count, "the message must survive")
}

func TestHomeFeed(t *testing.T) {
	app, s := setupTestServer(t)
	cookie := signupUser(t, app, "reader")
	signupUser(t, app, "followed")
	signupUser(t, app, "stranger")

	followed := userByName(t, s, "followed")
	stranger := userByName(t, s, "stranger")

	require.NoError(t, s.db.Create(&models.Message{Text: "for the feed", UserID: followed.ID}).Error)
	require.NoError(t, s.db.Create(&models.Message{Text: "unrelated", UserID: stranger.ID}).Error)

	postForm(t, app, fmt.Sprintf("/users/follow/%d", followed.ID), nil, cookie)

	var body struct {
		Messages []models.Message `json:"messages"`
	}
	decodeBody(t, get(t, app, "/", cookie), &body)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "for the feed", body.Messages[0].Text)
}

func TestHomeAnonymous(t *testing.T) {
	app, _ := setupTestServer(t)

	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, get(t, app, "/", nil), &body)
	assert.Equal(t, "What's Happening?", body.Message)
}
