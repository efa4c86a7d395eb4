package media

import (
	"context"
	"crypto/sha1"
	"edulearn/logger"
	"encoding/hex"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const uploadFolder = "edulearn"

// Cloudinary talks to the Cloudinary upload API.
type Cloudinary struct {
	client    *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

type cloudinaryError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCloudinary(baseURL, cloudName, apiKey, apiSecret string) *Cloudinary {
	return &Cloudinary{
		client:    resty.New().SetBaseURL(baseURL).SetTimeout(2 * time.Minute),
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
}

// sign computes the request signature: sha1 of the sorted params followed by the secret.
func (c *Cloudinary) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

func (c *Cloudinary) signedForm(params map[string]string) map[string]string {
	params["timestamp"] = strconv.FormatInt(c.now().Unix(), 10)
	form := map[string]string{
		"api_key":   c.apiKey,
		"signature": c.sign(params),
	}
	for k, v := range params {
		form[k] = v
	}
	return form
}

func (c *Cloudinary) Upload(ctx context.Context, file *multipart.FileHeader) (*Asset, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var asset Asset
	var apiErr cloudinaryError
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", file.Filename, src).
		SetFormData(c.signedForm(map[string]string{"folder": uploadFolder})).
		SetResult(&asset).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v1_1/%s/auto/upload", c.cloudName))
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cloudinary upload: %s: %s", resp.Status(), apiErr.Error.Message)
	}
	if asset.URL == "" {
		return nil, errors.New("cloudinary upload: empty secure_url")
	}

	logger.Log.Debug("uploaded media", zap.String("publicId", asset.PublicID), zap.String("type", asset.ResourceType))
	return &asset, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, url string) error {
	publicID, resourceType, ok := ParseURL(url)
	if !ok {
		return fmt.Errorf("cloudinary destroy: cannot parse public id from %q", url)
	}

	var result struct {
		Result string `json:"result"`
	}
	var apiErr cloudinaryError
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(c.signedForm(map[string]string{"public_id": publicID})).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v1_1/%s/%s/destroy", c.cloudName, resourceType))
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("cloudinary destroy: %s: %s", resp.Status(), apiErr.Error.Message)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: unexpected result %q", result.Result)
	}
	return nil
}
