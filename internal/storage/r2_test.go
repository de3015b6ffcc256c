package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appconfig "github.com/Ishaan583/foodshare/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewR2Client_Disabled(t *testing.T) {
	_, err := NewR2Client(context.Background(), appconfig.StorageConfig{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPublicURL(t *testing.T) {
	client, err := NewR2Client(context.Background(), appconfig.StorageConfig{
		Endpoint:      "https://acct.r2.cloudflarestorage.com",
		AccessKey:     "ak",
		SecretKey:     "sk",
		Bucket:        "photos",
		PublicBaseURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/donations/1/a.jpg", client.PublicURL("donations/1/a.jpg"))
}

func TestUpload_PutsObjectPathStyle(t *testing.T) {
	var gotMethod, gotPath, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewR2Client(context.Background(), appconfig.StorageConfig{
		Endpoint:  srv.URL,
		AccessKey: "ak",
		SecretKey: "sk",
		Bucket:    "photos",
	})
	require.NoError(t, err)

	url, err := client.Upload(context.Background(), "donations/d1/x.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/photos/donations/d1/x.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Contains(t, gotBody, "png-bytes")
	assert.Equal(t, srv.URL+"/photos/donations/d1/x.png", url)
}
