package resolver

import (
	"context"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	_ "github.com/bdandy/go-socks4"
	youtube "github.com/kkdai/youtube/v2"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"
)

// YouTubeFetcher is the production InfoFetcher, backed by kkdai/youtube.
type YouTubeFetcher struct {
	client  *youtube.Client
	limiter *rate.Limiter
}

// NewYouTubeFetcher builds a fetcher, optionally routed through an
// http/https/socks5/socks4 proxy. Lookups are rate limited to keep bursts of
// queue adds from tripping YouTube.
func NewYouTubeFetcher(proxyStr string) *YouTubeFetcher {
	return &YouTubeFetcher{
		client:  newYouTubeClient(proxyStr),
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

func (f *YouTubeFetcher) FetchInfo(ctx context.Context, ref string) (*RawInfo, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	video, err := f.client.GetVideoContext(ctx, ref)
	if err != nil {
		return nil, err
	}

	info := &RawInfo{
		ID:       video.ID,
		Title:    video.Title,
		Duration: int(video.Duration.Seconds()),
	}
	if len(video.Thumbnails) > 0 {
		info.Thumbnail = video.Thumbnails[0].URL
	}

	for i := range video.Formats {
		format := video.Formats[i]
		streamURL := format.URL
		if streamURL == "" && format.AudioChannels > 0 {
			// ciphered URL, let the client work it out
			if u, uerr := f.client.GetStreamURLContext(ctx, video, &format); uerr == nil {
				streamURL = u
			}
		}
		info.Formats = append(info.Formats, Format{
			ItagNo:        format.ItagNo,
			MimeType:      format.MimeType,
			Bitrate:       format.Bitrate / 1000,
			AudioChannels: format.AudioChannels,
			HasVideo:      !strings.HasPrefix(format.MimeType, "audio/"),
			URL:           streamURL,
		})
	}

	return info, nil
}

func newYouTubeClient(proxyStr string) *youtube.Client {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	if proxyStr == "" {
		return &youtube.Client{HTTPClient: httpClient}
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		log.Printf("[Resolver] Invalid proxy %q, going direct: %v", proxyStr, err)
		return &youtube.Client{HTTPClient: httpClient}
	}

	var transport *http.Transport

	switch proxyURL.Scheme {
	case "http", "https":
		transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	case "socks5":
		auth := &proxy.Auth{}
		if proxyURL.User != nil {
			auth.User = proxyURL.User.Username()
			if pass, ok := proxyURL.User.Password(); ok {
				auth.Password = pass
			}
		}
		dialer, derr := proxy.SOCKS5("tcp", proxyURL.Host, auth, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if derr != nil {
			log.Printf("[Resolver] SOCKS5 dialer error: %v", derr)
			break
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	case "socks4":
		dialer, derr := proxy.FromURL(proxyURL, &net.Dialer{
			Timeout: 10 * time.Second,
		})
		if derr != nil {
			log.Printf("[Resolver] SOCKS4 dialer error: %v", derr)
			break
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	default:
		log.Printf("[Resolver] Unsupported proxy scheme: %s", proxyURL.Scheme)
	}

	if transport == nil {
		return &youtube.Client{HTTPClient: httpClient}
	}

	log.Printf("[Resolver] Using proxy %s", proxyStr)
	return &youtube.Client{
		HTTPClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
	}
}
