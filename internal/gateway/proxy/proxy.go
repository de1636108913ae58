package proxy

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Proxy
// ============================================================

// hop-by-hop headers are not copied back to the client.
var skipResponseHeaders = map[string]struct{}{
	"Connection":        {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},
	"Content-Length":    {},
}

type Proxy struct {
	upstream string
	client   *http.Client
	log      *zap.Logger
}

func New(upstream string, timeout time.Duration, log *zap.Logger) *Proxy {
	if log == nil {
		log = zap.NewNop()
	}
	return &Proxy{
		upstream: strings.TrimRight(upstream, "/"),
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Mount forwards every method under prefix to the same path upstream with
// prefix stripped.
func (p *Proxy) Mount(router fiber.Router, prefix string) {
	router.All(prefix, p.handle(prefix))
	router.All(prefix+"/*", p.handle(prefix))
}

func (p *Proxy) handle(prefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := prefix
		if rest := c.Params("*"); rest != "" {
			path += "/" + rest
		}
		target := p.upstream + path
		if qs := string(c.Request().URI().QueryString()); qs != "" {
			target += "?" + qs
		}
		return p.Forward(c, target)
	}
}

// Forward sends the current request to targetURL, re-encoding multipart
// bodies, and copies the upstream response back.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	contentType := c.Get("Content-Type")
	p.log.Debug("forward",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("target", targetURL),
		zap.String("content_type", contentType),
		zap.Int("content_length", len(c.Body())))

	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(contentType, "multipart/form-data") {
		body, contentType, err = rebuildMultipart(c)
		if err != nil {
			p.log.Warn("invalid multipart", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart data"})
		}
	} else {
		body = c.Body()
	}

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, bytes.NewReader(body))
	if err != nil {
		p.log.Error("build request", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth := c.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error("upstream unreachable", zap.String("target", targetURL), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return p.copyResponse(c, resp)
}

func rebuildMultipart(c fiber.Ctx) ([]byte, string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fh := range files {
			if err := copyPart(writer, key, fh); err != nil {
				return nil, "", err
			}
		}
	}
	for key, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", err
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

func copyPart(writer *multipart.Writer, key string, fh *multipart.FileHeader) error {
	file, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, fh.Filename))
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		h.Set("Content-Type", ct)
	}

	part, err := writer.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

func (p *Proxy) copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Error("read upstream response", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if _, skip := skipResponseHeaders[key]; skip || len(values) == 0 {
			continue
		}
		c.Set(key, values[0])
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
