package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"menucart/internal/logger"
)

// Loader fetches the menu once at startup. There is no retry and no partial
// load: a failed fetch leaves the catalog empty and the failure is surfaced
// to the UI as an inline message.
type Loader struct {
	source string
	client *http.Client
}

// NewLoader builds a loader for the given source, which is either an
// http(s) URL or a local file path. The timeout bounds the HTTP request;
// file reads ignore it.
func NewLoader(source string, timeout time.Duration) *Loader {
	return &Loader{
		source: source,
		client: &http.Client{Timeout: timeout},
	}
}

// Load retrieves and parses the menu.
func (l *Loader) Load(ctx context.Context) ([]Product, error) {
	var data []byte
	var err error

	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		data, err = l.fetch(ctx)
	} else {
		data, err = os.ReadFile(l.source)
		err = errors.Wrapf(err, "failed to read menu file %s", l.source)
	}
	if err != nil {
		return nil, err
	}

	var items []Product
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "failed to parse menu")
	}

	logger.LogInfo("Loaded menu from %s: %d items, %d categories",
		l.source, len(items), len(Categories(items)))

	return items, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build menu request")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch menu from %s", l.source)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("menu fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read menu response")
	}

	return data, nil
}
