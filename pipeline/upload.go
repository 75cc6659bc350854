package pipeline

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
)

// ProgressFunc receives upload progress as an integer percentage. Values are
// monotonically non-decreasing per request and end at 100 on success.
type ProgressFunc func(percent int)

type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	lastNotify int
	onProgress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.notify()
	}
	return n, err
}

func (p *progressReader) notify() {
	if p.onProgress == nil || p.total <= 0 {
		return
	}
	percent := int(p.read * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if percent > p.lastNotify {
		p.lastNotify = percent
		p.onProgress(percent)
	}
}

// Upload sends a file as multipart/form-data under the given field name, with
// identical error semantics to [Client.Request]. Progress is reported from
// bytes transferred over total bytes; the callback never observes a decrease.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader, onProgress ProgressFunc, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return c.fail(&Error{Kind: KindNetwork, Message: "encode upload", cause: err})
	}
	if _, err := io.Copy(part, r); err != nil {
		return c.fail(&Error{Kind: KindNetwork, Message: "encode upload", cause: err})
	}
	if err := writer.Close(); err != nil {
		return c.fail(&Error{Kind: KindNetwork, Message: "encode upload", cause: err})
	}

	body := &progressReader{
		r:          bytes.NewReader(buf.Bytes()),
		total:      int64(buf.Len()),
		onProgress: onProgress,
	}

	req, cid, cancel, perr := c.newRequest(ctx, http.MethodPost, path, body)
	if perr != nil {
		return c.fail(perr)
	}
	defer cancel()
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = int64(buf.Len())

	return c.dispatch(req, cid, out)
}
