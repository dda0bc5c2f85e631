package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ornament-catalog/catalog"
	"ornament-catalog/models"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *BackendClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackendClient(srv.URL, 5*time.Second, 64)
}

func TestBackendClient_FetchIcons(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/icons", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"iconId":1,"iconPath":"/images/star.png","iconName":"Star","purchased":false,"price":0},
			{"iconId":2,"iconPath":"/images/bell.png","iconName":"Bell","purchased":true,"price":5}]}`))
	})

	icons, err := client.FetchIcons(context.Background(), "secret")
	require.NoError(t, err)
	require.Len(t, icons, 2)
	assert.Equal(t, models.Icon{IconID: 2, IconPath: "/images/bell.png", IconName: "Bell", Purchased: true, Price: 5}, icons[1])
}

func TestBackendClient_FetchCurrentUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/me", r.URL.Path)
		w.Write([]byte(`{"data":{"reward":10}}`))
	})

	user, err := client.FetchCurrentUser(context.Background(), "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(10), user.Reward)
}

func TestBackendClient_MissingCredentialNeverReachesNetwork(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.FetchIcons(context.Background(), "")
	assert.ErrorIs(t, err, catalog.ErrAuth)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestBackendClient_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchCurrentUser(context.Background(), "expired")
	assert.ErrorIs(t, err, catalog.ErrAuth)
}

func TestBackendClient_Purchase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/icons/purchase", r.URL.Path)
		var req models.PurchaseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(2), req.IconID)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, client.Purchase(context.Background(), "secret", 2))
}

func TestBackendClient_PurchaseRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"not enough coins"}`))
	})

	err := client.Purchase(context.Background(), "secret", 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrRejection)
	assert.Equal(t, "not enough coins", catalog.UserMessage(err))
}

func TestBackendClient_PurchaseNon200SuccessIsRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	err := client.Purchase(context.Background(), "secret", 2)
	assert.ErrorIs(t, err, catalog.ErrRejection)
}

func TestBackendClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewBackendClient(srv.URL, time.Second, 64)
	srv.Close()

	err := client.Purchase(context.Background(), "secret", 2)
	assert.ErrorIs(t, err, catalog.ErrNetwork)
}

func TestBackendClient_CreateIcon(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/icons", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Snowflake", r.FormValue("iconName"))
		assert.Equal(t, "0", r.FormValue("price"))

		file, header, err := r.FormFile("iconImage")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "snow.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 64, cfg.Width, "image is resized to the configured max dimension")
		assert.Equal(t, 32, cfg.Height)

		w.Write([]byte(`{"data":{"iconId":7,"iconPath":"/images/custom/7.png","iconName":"Snowflake","price":0}}`))
	})

	icon, err := client.CreateIcon(context.Background(), "secret", models.CreateIconRequest{
		Name:  "Snowflake",
		Price: 0,
		Image: models.UploadImage{FileName: "snow.png", ContentType: "image/png", Data: encodePNG(t, 200, 100)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), icon.IconID)
	assert.Equal(t, "/images/custom/7.png", icon.IconPath)
}

func TestBackendClient_CreateIconWithoutIDIsRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	})

	_, err := client.CreateIcon(context.Background(), "secret", models.CreateIconRequest{
		Name:  "Snowflake",
		Image: models.UploadImage{FileName: "snow.png", Data: encodePNG(t, 10, 10)},
	})
	assert.ErrorIs(t, err, catalog.ErrRejection)
}

func TestBackendClient_CreateIconRejectsNonImage(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.CreateIcon(context.Background(), "secret", models.CreateIconRequest{
		Name:  "Snowflake",
		Image: models.UploadImage{FileName: "notes.txt", Data: []byte("hello")},
	})
	assert.ErrorIs(t, err, catalog.ErrPrecondition)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
