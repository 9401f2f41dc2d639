// Package inference is the boundary to the external detection model
// service. The service owns the pretrained model; this package only moves
// bytes across and writes the annotated render the service returns.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/MohsenMaaleki/windsightai/core/models"
)

type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// wire format of the model service
type wireBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type wireDetection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        wireBox `json:"box"`
}

type predictResponse struct {
	Detections    []wireDetection `json:"detections"`
	RenderedImage string          `json:"rendered_image"` // base64 annotated copy
	Message       string          `json:"message,omitempty"`
}

// Detect posts the stored file to the model service and writes the
// annotated render to renderPath. Any failure — request, decode, or
// saving the render — is returned to the caller; nothing is retried.
func (c *Client) Detect(ctx context.Context, sourcePath, renderPath string) ([]models.Detection, error) {
	file, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(sourcePath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file data: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference failed with status %d: %s", resp.StatusCode, snippet)
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if result.RenderedImage != "" {
		rendered, err := base64.StdEncoding.DecodeString(result.RenderedImage)
		if err != nil {
			return nil, fmt.Errorf("decode rendered image: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(renderPath), 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		if err := os.WriteFile(renderPath, rendered, 0o644); err != nil {
			return nil, fmt.Errorf("save rendered image: %w", err)
		}
	}

	detections := make([]models.Detection, 0, len(result.Detections))
	for _, d := range result.Detections {
		detections = append(detections, models.Detection{
			Label:      d.Label,
			Confidence: d.Confidence,
			Box: models.Box{
				X:      d.Box.X,
				Y:      d.Box.Y,
				Width:  d.Box.Width,
				Height: d.Box.Height,
			},
		})
	}
	return detections, nil
}

// CheckHealth pings the model service.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
