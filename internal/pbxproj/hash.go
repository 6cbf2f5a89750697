package pbxproj

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Hash returns the 32-character upper-case hex MD5 digest of s.
func Hash(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
