package geo

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	CountryLocal   = "Local"
	CountryUnknown = "Unknown"
)

// Cache stores resolved countries by IP. Misses return ok == false.
type Cache interface {
	Get(ctx context.Context, ip string) (country string, ok bool, err error)
	Set(ctx context.Context, ip, country string) error
}

type geoResponse struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	City        string `json:"city"`
}

// Resolver looks up the country of an IP address. It never fails: problems
// are logged and reported as CountryUnknown.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	logger     *zap.Logger
}

// NewResolver builds a resolver; cache may be nil.
func NewResolver(baseURL string, httpClient *http.Client, cache Cache, logger *zap.Logger) *Resolver {
	return &Resolver{
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      cache,
		logger:     logger,
	}
}

func (r *Resolver) ResolveCountry(ctx context.Context, ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		r.logger.Warn("IP address is empty")
		return CountryUnknown
	}
	if isLocalOrPrivate(ip) {
		r.logger.Debug("Local or private IP detected", zap.String("ip", ip))
		return CountryLocal
	}

	if r.cache != nil {
		country, ok, err := r.cache.Get(ctx, ip)
		if err != nil {
			r.logger.Warn("Country cache lookup failed", zap.String("ip", ip), zap.Error(err))
		} else if ok {
			return country
		}
	}

	country, err := r.fetch(ctx, ip)
	if err != nil {
		r.logger.Error("Error resolving country", zap.String("ip", ip), zap.Error(err))
		return CountryUnknown
	}
	if country == "" {
		r.logger.Warn("No country data returned", zap.String("ip", ip))
		return CountryUnknown
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, ip, country); err != nil {
			r.logger.Warn("Country cache store failed", zap.String("ip", ip), zap.Error(err))
		}
	}
	r.logger.Info("Resolved country", zap.String("ip", ip), zap.String("country", country))
	return country
}

func (r *Resolver) fetch(ctx context.Context, ip string) (string, error) {
	tracer := otel.Tracer("geo-resolver")
	ctx, span := tracer.Start(ctx, "resolve-country", trace.WithAttributes(
		attribute.String("client.ip", ip),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+ip+".json", nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create HTTP request")
		return "", fmt.Errorf("unable to create http request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error sending HTTP request")
		return "", err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geolocation service responded with status %d", resp.StatusCode)
	}

	var body geoResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&body); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	return body.Country, nil
}

func isLocalOrPrivate(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified()
}
