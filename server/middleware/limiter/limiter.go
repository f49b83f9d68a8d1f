// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter provides network-based rate limiting for HTTP requests.

Clients are grouped by their IP network, and every network shares one token
bucket. Buckets that have not been used for ExpiryDuration are dropped on the
next cleanup pass.
*/
package limiter

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// IPv4 and IPv6 address lengths as measured in bits.
const (
	ipv4BitLength = 32
	ipv6BitLength = 128
)

const (
	ExpiryDuration  = time.Hour       // How long to keep idle limiters in memory.
	CleanupInterval = 5 * time.Minute // Interval between cleanup passes.
)

// Options configures a Limiter.
type Options struct {
	RequestsPerMinute int
	Burst             int
	IPv4Prefix        int
	IPv6Prefix        int
}

// limiterWrapper holds a rate limiter and the time it was last used.
type limiterWrapper struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// Limiter rate limits requests per client network.
type Limiter struct {
	opts  Options
	limit rate.Limit

	limiters sync.Map // network string -> *limiterWrapper

	mu            sync.Mutex
	lastCleanupAt time.Time

	now func() time.Time
}

// New returns a Limiter for opts.
func New(opts Options) *Limiter {
	return &Limiter{
		opts:  opts,
		limit: rate.Limit(float64(opts.RequestsPerMinute) / time.Minute.Seconds()),
		now:   time.Now,
	}
}

// Middleware rejects requests from networks that ran out of tokens with
// 429 Too Many Requests.
func (l *Limiter) Middleware(w http.ResponseWriter, r *http.Request, next http.Handler) {
	l.doCleanup()

	network := l.networkOf(r)
	if network == "" {
		next.ServeHTTP(w, r)

		return
	}

	if delay, ok := l.allow(network); !ok {
		log.Warn().
			Str("sys", "limiter").
			Str("network", network).
			Str("path", r.URL.Path).
			Msg("Rate limit exceeded")

		w.Header().Set("Retry-After", strconv.Itoa(int(delay.Round(time.Second).Seconds())+1))
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

// allow takes a token from the bucket of network. When none is left it
// reports how long until the next one.
func (l *Limiter) allow(network string) (time.Duration, bool) {
	v, _ := l.limiters.LoadOrStore(network, &limiterWrapper{
		limiter: rate.NewLimiter(l.limit, l.opts.Burst),
	})
	lw := v.(*limiterWrapper)

	now := l.now()

	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.lastAccess = now

	res := lw.limiter.ReserveN(now, 1)
	if !res.OK() {
		return 0, false
	}

	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)

		return delay, false
	}

	return 0, true
}

// doCleanup drops idle limiters at most once per CleanupInterval.
func (l *Limiter) doCleanup() {
	now := l.now()

	l.mu.Lock()
	if l.lastCleanupAt.IsZero() {
		l.lastCleanupAt = now
	}

	due := now.Sub(l.lastCleanupAt) >= CleanupInterval
	if due {
		l.lastCleanupAt = now
	}
	l.mu.Unlock()

	if due {
		l.cleanupExpiredLimiters(now)
	}
}

func (l *Limiter) cleanupExpiredLimiters(now time.Time) {
	removed := 0

	l.limiters.Range(func(key, value any) bool {
		lw := value.(*limiterWrapper)

		lw.mu.Lock()
		expired := now.Sub(lw.lastAccess) > ExpiryDuration
		lw.mu.Unlock()

		if expired {
			l.limiters.Delete(key)

			removed++
		}

		return true
	})

	log.Debug().Str("sys", "limiter").Int("removed", removed).Msg("Limiter cleanup")
}

// networkOf returns the client network of r, or "" if the client address
// cannot be determined.
func (l *Limiter) networkOf(r *http.Request) string {
	ip := net.ParseIP(getClientIP(r))
	if ip == nil {
		return ""
	}

	return getNetwork(ip, l.opts.IPv4Prefix, l.opts.IPv6Prefix).String()
}

// getClientIP extracts the client's IP address from an HTTP request.
//
// Proxy headers (X-Real-IP, X-Forwarded-For) are only trusted when the
// connection comes from a private or loopback address.
func getClientIP(r *http.Request) string {
	remoteIP := r.RemoteAddr
	if ip, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = ip
	}

	fromTrustedSource := false
	if ip := net.ParseIP(remoteIP); ip != nil {
		fromTrustedSource = ip.IsPrivate() || ip.IsLoopback()
	}

	if fromTrustedSource {
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}

		// The last hop is the one appended by our proxy.
		if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
			parts := strings.Split(xff, ",")

			return strings.TrimSpace(parts[len(parts)-1])
		}
	}

	return remoteIP
}

func getNetwork(rawIP net.IP, ipv4Prefix, ipv6Prefix int) *net.IPNet {
	var mask net.IPMask
	if rawIP.To4() != nil {
		mask = net.CIDRMask(ipv4Prefix, ipv4BitLength)
	} else {
		mask = net.CIDRMask(ipv6Prefix, ipv6BitLength)
	}

	return &net.IPNet{
		IP:   rawIP.Mask(mask),
		Mask: mask,
	}
}
