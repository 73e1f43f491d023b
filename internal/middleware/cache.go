package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/railway-booking/internal/config"
)

// cacheWriteTimeout bounds the SETEX issued after the response is sent.
const cacheWriteTimeout = time.Second

// bodyRecorder tees the response to the client and keeps a copy of the
// body while it stays under limit.  Once the limit is crossed the copy is
// dropped and the response is not cached.
type bodyRecorder struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (w *bodyRecorder) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
    if !w.overflow {
        if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
            w.overflow = true
            w.buf.Reset()
        } else {
            w.buf.Write(b)
        }
    }
    return w.ResponseWriter.Write(b)
}

// cacheKeyFrom derives the Redis key for a request.  The route component
// is the concrete path (/api/bookings/42), not the pattern, and the user
// strategies add the authenticated user ID.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", r.URL.Path}
    case "route_query":
        parts = []string{"route", r.URL.Path, "q", r.URL.RawQuery}
    case "user_route_query":
        parts = []string{"user", userKey(c), "route", r.URL.Path, "q", r.URL.RawQuery}
    default: // user_route
        parts = []string{"user", userKey(c), "route", r.URL.Path}
    }
    sum := sha1.Sum([]byte(r.Method + ":" + strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum)
}

// cachedResponse is the value stored under a cache key.
type cachedResponse struct {
    Status int         `json:"s"`
    Header http.Header `json:"h"`
    Body   []byte      `json:"b"`
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    return json.Marshal(cachedResponse{Status: status, Header: header, Body: body})
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    var cr cachedResponse
    if err := json.Unmarshal(bs, &cr); err != nil || cr.Status == 0 {
        return 0, nil, nil, false
    }
    if cr.Header == nil {
        cr.Header = make(http.Header)
    }
    return cr.Status, cr.Header, cr.Body, true
}

// NewRedisCache serves repeated GETs of a booking from Redis.  It is
// mounted after JWTAuth: bookings are immutable and the key includes the
// authenticated user, so an entry is only ever served back to the user it
// was produced for.  Only 200 responses are stored; 403 and 404 always
// reach the handler.  Redis failures degrade to a plain miss.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 10 * time.Minute
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            key := cacheKeyFrom(cfg, c)
            res := c.Response()

            if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if strings.EqualFold(k, echo.HeaderContentLength) {
                            continue
                        }
                        for _, v := range vals {
                            res.Header().Add(k, v)
                        }
                    }
                    res.Header().Set("X-Cache", "HIT")
                    res.WriteHeader(status)
                    _, err := res.Write(body)
                    return err
                }
            } else if err != redis.Nil {
                c.Logger().Warnf("booking-cache: get %s: %v", key, err)
            }

            rec := &bodyRecorder{ResponseWriter: res.Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            res.Writer = rec
            res.Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.overflow {
                return nil
            }

            hdr := res.Header().Clone()
            hdr.Del("X-Cache")
            payload, err := encodePayload(rec.status, hdr, rec.buf.Bytes())
            if err != nil {
                return nil
            }
            ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
            defer cancel()
            if err := rdb.SetEx(ctx, key, payload, ttl).Err(); err != nil {
                c.Logger().Warnf("booking-cache: set %s: %v", key, err)
            }
            return nil
        }
    }
}
