package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lariatlabs/event-source-service/common/utils"
)

const (
	headerApiKey           = "X-API-KEY"
	headerAccessTime       = "X-ACCESS-TIME"
	headerRequestSignature = "X-REQUEST-SIGNATURE"

	// maxClockSkew bounds how stale a request timestamp may be
	maxClockSkew = 5 * time.Minute
)

// ApiKey rejects requests whose X-API-KEY header does not match the salted
// hash of the configured backend key.
func ApiKey(apiKey string, salt string) func(http.Handler) http.Handler {
	expected := saltedHash(apiKey, salt)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(headerApiKey)
			if provided == "" || !hmac.Equal([]byte(saltedHash(provided, salt)), []byte(expected)) {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessTime requires a unix-millisecond X-ACCESS-TIME header within the
// allowed clock skew, limiting replay of captured requests.
func AccessTime() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(headerAccessTime)
			if raw == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Missing access time")
				return
			}

			millis, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid access time")
				return
			}

			accessTime := time.UnixMilli(millis)
			drift := time.Since(accessTime)
			if drift < -maxClockSkew || drift > maxClockSkew {
				log.Debug().Time("accessTime", accessTime).Msg("Access time outside allowed skew")
				utils.WriteError(w, http.StatusUnauthorized, "Access time outside allowed window")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSignature verifies the X-REQUEST-SIGNATURE header: an HMAC-SHA256 of
// method, path and access time keyed with the server salt.
func RequestSignature(salt string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(headerRequestSignature)
			if signature == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Missing request signature")
				return
			}

			expected := SignRequest(r.Method, r.URL.Path, r.Header.Get(headerAccessTime), salt)
			if !hmac.Equal([]byte(signature), []byte(expected)) {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid request signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SignRequest computes the canonical request signature. Exported so clients
// and tests build signatures the same way the middleware checks them.
func SignRequest(method, path, accessTime, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(method))
	mac.Write([]byte("\n"))
	mac.Write([]byte(path))
	mac.Write([]byte("\n"))
	mac.Write([]byte(accessTime))
	return hex.EncodeToString(mac.Sum(nil))
}

func saltedHash(value, salt string) string {
	sum := sha256.Sum256([]byte(value + salt))
	return hex.EncodeToString(sum[:])
}
