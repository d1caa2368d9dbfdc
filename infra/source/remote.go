package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
)

// maxRemoteSize bounds a fetched project document.
const maxRemoteSize = 8 << 20

// Fetch downloads a YAML project document from rawURL with c. The project
// name falls back to the last path element without extension.
func Fetch(ctx context.Context, c *http.Client, rawURL, sentinel string) (*Project, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("project url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/yaml, text/yaml, */*")
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", u.Redacted(), resp.Status)
	}
	p, err := ReadProjectYAML(io.LimitReader(resp.Body, maxRemoteSize), sentinel)
	if err != nil {
		return nil, withSource(err, u.Redacted())
	}
	if p.Name == "" {
		base := path.Base(u.Path)
		p.Name = base[:len(base)-len(path.Ext(base))]
	}
	return p, nil
}
