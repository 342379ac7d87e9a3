package meta

import (
	"context"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// Service loads configuration documents from any afs-addressable location
// (file, embed, mem, s3, ...). Loaded content has ${env.KEY} expressions
// expanded before it is returned.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service rooted at baseURL. An empty baseURL makes Load
// treat every URI as absolute.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// Load fetches the document identified by URI, resolved against the base URL
// unless the URI already carries a scheme or is absolute.
func (s *Service) Load(ctx context.Context, URI string) ([]byte, error) {
	location := URI
	if s.baseURL != "" && !strings.Contains(URI, "://") && !strings.HasPrefix(URI, "/") {
		location = url.Join(s.baseURL, URI)
	}
	data, err := s.fs.DownloadWithURL(ctx, location, s.options...)
	if err != nil {
		return nil, err
	}
	return []byte(expandEnvExpr(string(data))), nil
}
