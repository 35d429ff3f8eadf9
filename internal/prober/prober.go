package prober

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrTooLarge = errors.New("prober: image exceeds the size limit")

// Options configures an HTTPProber.
type Options struct {
	Timeout  time.Duration
	MaxBytes int64
	// AllowedHosts restricts downloads to these hosts. An entry starting with a dot
	// also matches every subdomain. Empty allows any host.
	AllowedHosts []string
	// AllowPrivateNetworks lets the prober dial loopback, private and link-local addresses.
	AllowPrivateNetworks bool
}

// HTTPProber downloads images over HTTP and inspects their bytes.
type HTTPProber struct {
	client       *http.Client
	maxBytes     int64
	allowedHosts []string
}

var _ port.Prober = (*HTTPProber)(nil)

func NewHTTPProber(opts Options) *HTTPProber {
	p := &HTTPProber{maxBytes: opts.MaxBytes}
	for _, h := range opts.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			p.allowedHosts = append(p.allowedHosts, h)
		}
	}

	dialer := &net.Dialer{Timeout: opts.Timeout}
	if !opts.AllowPrivateNetworks {
		dialer.Control = refusePrivateAddresses
	}
	transport := &http.Transport{
		// no proxy: the address guard has to see the real destination
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   opts.Timeout,
		ResponseHeaderTimeout: opts.Timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	p.client = &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return p.checkURL(req.URL)
		},
	}
	return p
}

// checkURL accepts http and https URLs whose host is on the allow-list.
func (p *HTTPProber) checkURL(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", port.ErrURLNotAllowed, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", port.ErrURLNotAllowed)
	}
	if len(p.allowedHosts) == 0 {
		return nil
	}
	for _, allowed := range p.allowedHosts {
		if host == allowed || (strings.HasPrefix(allowed, ".") && strings.HasSuffix(host, allowed)) {
			return nil
		}
	}
	return fmt.Errorf("%w: host %q", port.ErrURLNotAllowed, host)
}

// refusePrivateAddresses runs after DNS resolution, so a public name pointing at an internal address is refused too.
func refusePrivateAddresses(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrURLNotAllowed, err)
	}
	ip := net.ParseIP(host)
	if ip == nil || isInternal(ip) {
		return fmt.Errorf("%w: address %s", port.ErrURLNotAllowed, address)
	}
	return nil
}

func isInternal(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}

// Probe sniffs the content type from the body rather than trusting the response headers.
// Width and height stay at zero for formats that cannot be decoded, such as SVG.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) (model.ProbedMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.ProbedMetadata{}, fmt.Errorf("build request: %w", err)
	}
	if err := p.checkURL(req.URL); err != nil {
		return model.ProbedMetadata{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return model.ProbedMetadata{}, fmt.Errorf("download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.ProbedMetadata{}, fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}
	if p.maxBytes > 0 && resp.ContentLength > p.maxBytes {
		return model.ProbedMetadata{}, ErrTooLarge
	}

	body := io.Reader(resp.Body)
	if p.maxBytes > 0 {
		body = io.LimitReader(resp.Body, p.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return model.ProbedMetadata{}, fmt.Errorf("read body: %w", err)
	}
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return model.ProbedMetadata{}, ErrTooLarge
	}

	meta := model.ProbedMetadata{
		ContentType: baseType(mimetype.Detect(data).String()),
		FileSize:    int64(len(data)),
	}

	if !strings.HasPrefix(meta.ContentType, "image/") {
		logger.Warnf(ctx, "content at %q is %s, not an image", rawURL, meta.ContentType)
		return meta, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logger.Debugf(ctx, "could not decode dimensions of %s image at %q: %v", meta.ContentType, rawURL, err)
		return meta, nil
	}
	meta.Width, meta.Height = cfg.Width, cfg.Height

	return meta, nil
}

// baseType drops parameters such as charset from a MIME type.
func baseType(mime string) string {
	return strings.TrimSpace(strings.SplitN(mime, ";", 2)[0])
}
