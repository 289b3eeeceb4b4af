package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const imageFetchTimeout = 30 * time.Second

var errImageTooLarge = errors.New("image too large")

type fileURLer interface {
	GetFileDirectURL(fileID string) (string, error)
}

// imageFetcher downloads files admins send to the bot.
type imageFetcher struct {
	files    fileURLer
	client   *http.Client
	maxBytes int64
}

func newImageFetcher(files fileURLer, maxBytes int64) *imageFetcher {
	return &imageFetcher{
		files:    files,
		client:   &http.Client{Timeout: imageFetchTimeout},
		maxBytes: maxBytes,
	}
}

func (f *imageFetcher) fetch(ctx context.Context, fileID string) ([]byte, error) {
	url, err := f.files.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errImageTooLarge
	}
	return data, nil
}

// pickImageFile chooses the largest photo size within maxBytes, or an image
// sent as a document. Telegram lists photo sizes smallest first.
func pickImageFile(msg *tgbotapi.Message, maxBytes int64) (string, bool) {
	if len(msg.Photo) > 0 {
		best := msg.Photo[0]
		for _, p := range msg.Photo[1:] {
			if int64(p.FileSize) <= maxBytes && p.Width*p.Height > best.Width*best.Height {
				best = p
			}
		}
		return best.FileID, true
	}
	if d := msg.Document; d != nil && strings.HasPrefix(d.MimeType, "image/") {
		return d.FileID, true
	}
	return "", false
}
