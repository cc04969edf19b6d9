// Where: internal/domain/secret/secret.go
// What: Random credential generation.
// Why: Provide passwords and encryption keys for apps and their backing services.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/poruru-code/fly-laravel/internal/failure"
)

// Size is the number of random bytes behind every generated value.
const Size = 32

// AppKeyPrefix tags Laravel encryption keys with their encoding.
const AppKeyPrefix = "base64:"

var randReader io.Reader = rand.Reader

// Random returns base64(32 cryptographically random bytes).
func Random() (string, error) {
	buf := make([]byte, Size)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", failure.AsCommandFailed(err, "generate random secret")
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// AppKey returns a Laravel APP_KEY value.
func AppKey() (string, error) {
	value, err := Random()
	if err != nil {
		return "", err
	}
	return AppKeyPrefix + value, nil
}

// Bundle generates one random value per name.
func Bundle(names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		value, err := Random()
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}
