package auth_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskbox/task-api/app"
	"taskbox/task-api/db"
	"taskbox/task-api/internal"
	"taskbox/task-api/internal/model"
	"taskbox/task-api/pkg/security"
	"taskbox/task-api/pkg/util"
	"taskbox/task-api/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("jwt.secret", "test-secret")
	viper.Set("security.rate_limit", 1000)
	viper.Set("host.cors_origins", []string{"http://localhost"})
	viper.Set("storage.type", "local")
	viper.Set("storage.local_dir", t.TempDir())
	viper.Set("avatar.max_size", int64(5<<20))

	// A named shared in-memory database so every pooled connection
	// sees the same tables
	conn, err := gorm.Open(sqlite.Open("file:" + util.RandStr(8) + "?mode=memory&cache=shared"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	store, err := storage.NewLocal(viper.GetString("storage.local_dir"))
	require.NoError(t, err)

	d := &internal.Deps{
		DB:      conn,
		Argon:   security.New(),
		Storage: store,
	}

	return app.Routes(d), d
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func signup(t *testing.T, r *gin.Engine, name, email, password string) (token, userID string) {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

func TestSignupLoginFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	token, _ := signup(t, r, "Ann", "ann@x.com", "Passw0rd!")
	require.NotEmpty(t, token)

	// The fresh token works right away
	w := doJSON(r, http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Ann", user["name"])
	assert.Equal(t, "ann@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ann@x.com", "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["token"])
}

func TestSignupValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []gin.H{
		{"name": "", "email": "a@x.com", "password": "Passw0rd!"},
		{"name": "Ann", "email": "nope", "password": "Passw0rd!"},
		{"name": "Ann", "email": "a@x.com", "password": "short1A"},
		{"name": "Ann", "email": "a@x.com", "password": "alllowercase1"},
	}

	for _, body := range cases {
		w := doJSON(r, http.MethodPost, "/api/auth/signup", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	r, d := newTestRouter(t)

	signup(t, r, "Ann", "ann@x.com", "Passw0rd!")

	// Same email, different casing
	w := doJSON(r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Ann2", "email": "Ann@X.com", "password": "Passw0rd!",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, d.DB.Model(model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPasswordNeverStoredPlaintext(t *testing.T) {
	r, d := newTestRouter(t)

	signup(t, r, "Ann", "ann@x.com", "Passw0rd!")

	var user model.User
	require.NoError(t, d.DB.Where("email = ?", "ann@x.com").First(&user).Error)
	assert.NotEqual(t, "Passw0rd!", user.PasswordHash)
	assert.NotContains(t, user.PasswordHash, "Passw0rd!")
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)

	signup(t, r, "Ann", "ann@x.com", "Passw0rd!")

	// Unknown email and wrong password must be indistinguishable
	w1 := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@x.com", "password": "Passw0rd!",
	})
	w2 := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ann@x.com", "password": "Wrong0rd!",
	})

	assert.Equal(t, http.StatusBadRequest, w1.Code)
	assert.Equal(t, http.StatusBadRequest, w2.Code)
	assert.Equal(t, decode(t, w1)["error"], decode(t, w2)["error"])
}

func TestCurrentUserAuth(t *testing.T) {
	r, d := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/auth/user", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token whose user is gone
	token, userID := signup(t, r, "Ann", "ann@x.com", "Passw0rd!")
	require.NoError(t, d.DB.Where("id = ?", userID).Delete(model.User{}).Error)

	w = doJSON(r, http.MethodGet, "/api/auth/user", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestForgotAndResetPassword(t *testing.T) {
	r, d := newTestRouter(t)

	_, userID := signup(t, r, "Ann", "ann@x.com", "Passw0rd!")

	// Unknown address gets the same answer as a known one
	w := doJSON(r, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "nobody@x.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "ann@x.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var tok model.PasswordResetToken
	require.NoError(t, d.DB.Where("user_id = ?", userID).First(&tok).Error)

	// Issuing again replaces the previous token
	w = doJSON(r, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "ann@x.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, d.DB.Model(model.PasswordResetToken{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	tok = model.PasswordResetToken{}
	require.NoError(t, d.DB.Where("user_id = ?", userID).First(&tok).Error)

	// Weak replacement password is rejected, token stays valid
	w = doJSON(r, http.MethodPost, "/api/auth/reset-password/"+tok.Token, "", gin.H{"password": "weak"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/reset-password/"+tok.Token, "", gin.H{"password": "NewPassw0rd"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Single use
	w = doJSON(r, http.MethodPost, "/api/auth/reset-password/"+tok.Token, "", gin.H{"password": "OtherPassw0rd1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Old password dead, new one works
	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@x.com", "password": "Passw0rd!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@x.com", "password": "NewPassw0rd"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestResetPasswordUnknownToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/reset-password/deadbeef", "", gin.H{"password": "NewPassw0rd"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvatarUpload(t *testing.T) {
	r, _ := newTestRouter(t)

	token, _ := signup(t, r, "Ann", "ann@x.com", "Passw0rd!")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	hdr.Set("Content-Type", "image/png")

	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)

	// PNG signature is all the sniffer needs
	part.Write([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0})
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	url := decode(t, w)["avatarUrl"].(string)
	assert.NotEmpty(t, url)

	// The account now reports the avatar
	w2 := doJSON(r, http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, url, decode(t, w2)["user"].(map[string]any)["avatar"])
}

func TestAvatarRejectsNonImage(t *testing.T) {
	r, _ := newTestRouter(t)

	token, _ := signup(t, r, "Ann", "ann@x.com", "Passw0rd!")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="evil.png"`)
	hdr.Set("Content-Type", "image/png")

	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)

	// Claims to be a PNG, is actually a shell script
	part.Write([]byte("#!/bin/sh\nrm -rf /\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOversizedBodyRejectedBeforeHandler(t *testing.T) {
	r, d := newTestRouter(t)

	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(gin.H{
		"name": "Ann", "email": "ann@x.com", "password": "Passw0rd!",
	})

	// A small real body behind an inflated Content-Length still has to
	// die at the limiter, not in the handler
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = 8 << 20

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Request body size exceeds limit", decode(t, w)["error"])

	// The signup handler never ran
	var count int64
	require.NoError(t, d.DB.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
