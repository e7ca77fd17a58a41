package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"

	"github.com/ganot/project-sentry/internal/domain/project"
)

// Upload posts body as the multipart field "file". size must be the exact
// body length; it is used for Content-Length and byte progress. onProgress,
// when set, receives round(sent*100/total) each time the value changes.
func (c *Client) Upload(ctx context.Context, name string, body io.Reader, size int64, onProgress func(int)) (project.UploadReceipt, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if _, err := mw.CreateFormFile("file", name); err != nil {
		return project.UploadReceipt{}, fmt.Errorf("building multipart header: %w", err)
	}
	head := bytes.Clone(buf.Bytes())
	buf.Reset()
	if err := mw.Close(); err != nil {
		return project.UploadReceipt{}, fmt.Errorf("building multipart trailer: %w", err)
	}
	tail := bytes.Clone(buf.Bytes())

	total := int64(len(head)) + size + int64(len(tail))
	payload := &progressReader{
		r:     io.MultiReader(bytes.NewReader(head), io.LimitReader(body, size), bytes.NewReader(tail)),
		total: total,
		last:  -1,
		fn:    onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", payload)
	if err != nil {
		return project.UploadReceipt{}, fmt.Errorf("building request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("uploading", "file", name, "size", size)

	var receipt project.UploadReceipt
	if err := c.do(req, &receipt); err != nil {
		return project.UploadReceipt{}, err
	}
	return receipt, nil
}

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.fn != nil && p.total > 0 {
		pct := int(math.Round(float64(p.read) * 100 / float64(p.total)))
		if pct != p.last {
			p.last = pct
			p.fn(pct)
		}
	}
	return n, err
}
