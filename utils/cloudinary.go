package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// AssetKind selects the media endpoint for deletion.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

// UploadResult is the identifier + URL pair stored on catalog and account
// records.
type UploadResult struct {
	PublicID  string  `json:"public_id"`
	SecureURL string  `json:"secure_url"`
	Duration  float64 `json:"duration,omitempty"` // videos only, seconds
}

// CloudinaryClient uploads and deletes binary assets on the media host.
type CloudinaryClient struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *resty.Client
}

func NewCloudinaryClient(cloudName, apiKey, apiSecret string) *CloudinaryClient {
	return &CloudinaryClient{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    resty.New().SetBaseURL("https://api.cloudinary.com/v1_1/" + cloudName),
	}
}

// SetBaseURL points the client at a different media endpoint. Used by tests.
func (cc *CloudinaryClient) SetBaseURL(url string) {
	cc.client.SetBaseURL(url)
}

// Upload sends a local file to the media host and returns the asset
// identifier with its public URL. Resource type is auto-detected.
func (cc *CloudinaryClient) Upload(filePath string) (*UploadResult, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	var result UploadResult
	resp, err := cc.client.R().
		SetFile("file", filePath).
		SetFormData(map[string]string{
			"api_key":   cc.apiKey,
			"timestamp": timestamp,
			"signature": cc.sign("timestamp=" + timestamp),
		}).
		SetResult(&result).
		Post("/auto/upload")
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("upload media: host returned %s: %s", resp.Status(), resp.String())
	}
	return &result, nil
}

// Destroy deletes an asset by id. kind picks the image or video endpoint.
func (cc *CloudinaryClient) Destroy(publicID string, kind AssetKind) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	resp, err := cc.client.R().
		SetFormData(map[string]string{
			"public_id": publicID,
			"api_key":   cc.apiKey,
			"timestamp": timestamp,
			"signature": cc.sign("public_id=" + publicID + "&timestamp=" + timestamp),
		}).
		Post("/" + string(kind) + "/destroy")
	if err != nil {
		return fmt.Errorf("destroy media %s: %w", publicID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("destroy media %s: host returned %s", publicID, resp.Status())
	}
	return nil
}

// sign produces the request signature: SHA1 over the sorted parameter string
// with the API secret appended.
func (cc *CloudinaryClient) sign(params string) string {
	sum := sha1.Sum([]byte(params + cc.apiSecret))
	return hex.EncodeToString(sum[:])
}
