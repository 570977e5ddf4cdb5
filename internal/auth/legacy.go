package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// LEGACY HASHES:
// users.json files written by the earlier Flask app store werkzeug hashes:
//
//	pbkdf2:sha256:600000$<salt>$<hex digest>
//	scrypt:32768:8:1$<salt>$<hex digest>
//
// The salt is used as its literal text. Those accounts keep working without
// a password reset; new hashes are always bcrypt.

// isLegacyHash reports whether hash is in werkzeug's method$salt$digest form.
func isLegacyHash(hash string) bool {
	return strings.HasPrefix(hash, "pbkdf2:") || strings.HasPrefix(hash, "scrypt:")
}

func verifyLegacy(stored, plaintext string) error {
	method, salt, digestHex, ok := splitLegacy(stored)
	if !ok {
		return fmt.Errorf("auth: malformed legacy hash")
	}
	want, err := hex.DecodeString(digestHex)
	if err != nil || len(want) == 0 {
		return fmt.Errorf("auth: malformed legacy hash digest")
	}

	got, err := deriveLegacy(method, []byte(plaintext), []byte(salt), len(want))
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

func splitLegacy(stored string) (method, salt, digest string, ok bool) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func deriveLegacy(method string, password, salt []byte, keyLen int) ([]byte, error) {
	args := strings.Split(method, ":")
	switch args[0] {
	case "pbkdf2":
		if len(args) != 3 {
			return nil, fmt.Errorf("auth: pbkdf2 hash without iteration count")
		}
		h, err := legacyDigest(args[1])
		if err != nil {
			return nil, err
		}
		iter, err := strconv.Atoi(args[2])
		if err != nil || iter < 1 {
			return nil, fmt.Errorf("auth: bad pbkdf2 iteration count %q", args[2])
		}
		return pbkdf2.Key(password, salt, iter, keyLen, h), nil

	case "scrypt":
		n, r, p := 1<<15, 8, 1
		if len(args) == 4 {
			var err error
			if n, err = strconv.Atoi(args[1]); err != nil {
				return nil, fmt.Errorf("auth: bad scrypt cost %q", args[1])
			}
			if r, err = strconv.Atoi(args[2]); err != nil {
				return nil, fmt.Errorf("auth: bad scrypt block size %q", args[2])
			}
			if p, err = strconv.Atoi(args[3]); err != nil {
				return nil, fmt.Errorf("auth: bad scrypt parallelism %q", args[3])
			}
		} else if len(args) != 1 {
			return nil, fmt.Errorf("auth: bad scrypt parameters %q", method)
		}
		key, err := scrypt.Key(password, salt, n, r, p, keyLen)
		if err != nil {
			return nil, fmt.Errorf("auth: scrypt: %w", err)
		}
		return key, nil
	}
	return nil, fmt.Errorf("auth: unsupported legacy hash method %q", args[0])
}

func legacyDigest(name string) (func() hash.Hash, error) {
	switch name {
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	case "sha512":
		return sha512.New, nil
	}
	return nil, fmt.Errorf("auth: unsupported pbkdf2 digest %q", name)
}
