package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryClientUpload(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "thumb.png")
	require.NoError(t, os.WriteFile(filePath, []byte("not really a png"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auto/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "key", r.FormValue("api_key"))

		timestamp := r.FormValue("timestamp")
		require.NotEmpty(t, timestamp)
		sum := sha1.Sum([]byte("timestamp=" + timestamp + "secret"))
		assert.Equal(t, hex.EncodeToString(sum[:]), r.FormValue("signature"))

		_, _, err := r.FormFile("file")
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id":"folder/thumb","secure_url":"https://res.example.com/folder/thumb.png","duration":0}`))
	}))
	defer server.Close()

	client := NewCloudinaryClient("demo", "key", "secret")
	client.SetBaseURL(server.URL)

	result, err := client.Upload(filePath)
	require.NoError(t, err)
	assert.Equal(t, "folder/thumb", result.PublicID)
	assert.Equal(t, "https://res.example.com/folder/thumb.png", result.SecureURL)
}

func TestCloudinaryClientUploadHostError(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "thumb.png")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer server.Close()

	client := NewCloudinaryClient("demo", "key", "secret")
	client.SetBaseURL(server.URL)

	_, err := client.Upload(filePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCloudinaryClientDestroy(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "folder/video1", r.FormValue("public_id"))

		timestamp := r.FormValue("timestamp")
		sum := sha1.Sum([]byte("public_id=folder/video1&timestamp=" + timestamp + "secret"))
		assert.Equal(t, hex.EncodeToString(sum[:]), r.FormValue("signature"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer server.Close()

	client := NewCloudinaryClient("demo", "key", "secret")
	client.SetBaseURL(server.URL)

	require.NoError(t, client.Destroy("folder/video1", AssetVideo))
	assert.Equal(t, "/video/destroy", gotPath)
}
