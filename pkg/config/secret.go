package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInsecureSecretFile is returned for secret files that other users can modify.
var ErrInsecureSecretFile = errors.New("secret file is writable by group or others")

// maxSecretFileSize bounds how much of a secret file is read.
const maxSecretFileSize = 64 << 10

// ReadSecretFile reads a single secret from path. Surrounding whitespace is
// trimmed. Files writable by group or others are rejected, as are empty and
// oversized files.
func ReadSecretFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path %q is not a regular file", path)
	}
	if info.Mode().Perm()&0o022 != 0 {
		return "", fmt.Errorf("%w: %s has mode %04o", ErrInsecureSecretFile, path, info.Mode().Perm())
	}
	if info.Size() > maxSecretFileSize {
		return "", fmt.Errorf("secret file %q is larger than %d bytes", path, maxSecretFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("secret file %q is empty", path)
	}
	return secret, nil
}
