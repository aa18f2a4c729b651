// Package extract wraps the unstructured partition API, which turns an
// uploaded file into an ordered list of text elements with layout metadata.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Element is one extracted unit of document text.
type Element struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Extractor is implemented by anything that can split a file into elements.
type Extractor interface {
	Partition(ctx context.Context, fileName string, file io.Reader) ([]Element, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// Partition sends the file with fixed chunking options: chunks capped at
// 1500 characters, fragments under 500 characters merged, fast strategy,
// split by title, table structure inferred for PDFs.
func (c *Client) Partition(ctx context.Context, fileName string, file io.Reader) ([]Element, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"pdf_infer_table_structure": "true",
		"max_characters":            "1500",
		"combine_under_n_chars":     "500",
		"strategy":                  "fast",
		"chunking_strategy":         "by_title",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}

	part, err := writer.CreateFormFile("files", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("unstructured-api-key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction failed, status %d, body %s", res.StatusCode, string(resBody))
	}

	var elements []Element
	if err := json.Unmarshal(resBody, &elements); err != nil {
		return nil, err
	}

	return elements, nil
}
