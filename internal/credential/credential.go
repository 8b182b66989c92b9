// Package credential loads the account list and performs the one-time login
// check that gates the member book.
package credential

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// JSON labels used by existing credential files.
const (
	accountLabel  = "帳號"
	passwordLabel = "密碼"
)

// Mode selects how a stored password is compared with the entered one.
type Mode string

const (
	// ModePlain compares the stored value with the input verbatim.
	ModePlain Mode = "plain"

	// ModeMD5 compares the stored value with the lowercase hex MD5 of the input.
	ModeMD5 Mode = "md5"

	// ModeBcrypt treats the stored value as a bcrypt hash.
	ModeBcrypt Mode = "bcrypt"
)

// ValidModes lists the accepted Mode values.
var ValidModes = []Mode{ModePlain, ModeMD5, ModeBcrypt}

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range ValidModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid password mode %q: must be one of %v", s, ValidModes)
}

// Credential is one account/password pair.
type Credential struct {
	Account  string
	Password string
}

// UnmarshalJSON accepts both the locale labels and the English keys
// "account"/"password". Locale labels win when both are present. Other keys,
// and non-string values, are ignored.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Account = stringField(raw, accountLabel, "account")
	c.Password = stringField(raw, passwordLabel, "password")
	return nil
}

// stringField returns the first of keys holding a JSON string, or "".
// null counts as absent.
func stringField(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(v, &s); err == nil && s != nil {
			return *s
		}
	}
	return ""
}

// MarshalJSON writes the locale labels.
func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		accountLabel:  c.Account,
		passwordLabel: c.Password,
	})
}

// Load reads the credential list at path, preserving file order.
//
// It fails soft: a missing or malformed file yields an empty (non-nil) slice
// together with the error, so a caller that only prints the error ends up
// with a gate that rejects everyone.
func Load(path string) ([]Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return []Credential{}, fmt.Errorf("read credentials: %w", err)
	}

	var creds []Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		return []Credential{}, fmt.Errorf("parse credentials %s: %w", path, err)
	}

	if creds == nil {
		creds = []Credential{}
	}
	return creds, nil
}

// Check reports whether some credential has exactly the given account and a
// password matching the given one under mode.
func Check(account, password string, creds []Credential, mode Mode) bool {
	for _, c := range creds {
		if c.Account == account && mode.Match(c.Password, password) {
			return true
		}
	}
	return false
}

// Match compares a stored password with a candidate.
func (m Mode) Match(stored, candidate string) bool {
	switch m {
	case ModePlain:
		return stored == candidate
	case ModeMD5:
		return stored == md5Hex(candidate)
	case ModeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	default:
		return false
	}
}

// Hash returns the form of password stored in a credential file for mode.
func Hash(password string, mode Mode) (string, error) {
	switch mode {
	case ModePlain:
		return password, nil
	case ModeMD5:
		return md5Hex(password), nil
	case ModeBcrypt:
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(hash), nil
	default:
		return "", fmt.Errorf("invalid password mode %q", mode)
	}
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
