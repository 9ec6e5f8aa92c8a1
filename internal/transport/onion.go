package transport

import (
	"encoding/base32"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// onionSuffix ends every onion service host name.
	onionSuffix = ".onion"

	// onionV3Version is the version byte embedded in v3 addresses.
	onionV3Version = 0x03
)

var (
	// onionV3Pattern matches 56 base32 characters followed by .onion.
	onionV3Pattern = regexp.MustCompile(`^[a-z2-7]{56}\.onion$`)

	// onionV2Pattern matches the retired 16 character form.
	onionV2Pattern = regexp.MustCompile(`^[a-z2-7]{16}\.onion$`)
)

// checksumPrefix is prepended to the key when computing v3 checksums.
var checksumPrefix = []byte(".onion checksum")

// IsOnionHost reports whether host (without port) is an onion service
// name. Subdomains such as "www.<key>.onion" count.
func IsOnionHost(host string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSuffix(host, ".")), onionSuffix)
}

// ValidateOnionHost checks that host is a well-formed v3 onion name with a
// correct checksum. Subdomain labels in front of the service name are
// allowed.
func ValidateOnionHost(host string) error {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return fmt.Errorf("%w: %q", ErrInvalidOnionAddress, host)
	}
	service := labels[len(labels)-2] + onionSuffix

	if IsValidV3Address(service) {
		return nil
	}
	if onionV2Pattern.MatchString(service) {
		return fmt.Errorf("%w: %q", ErrV2AddressDeprecated, host)
	}
	return fmt.Errorf("%w: %q", ErrInvalidOnionAddress, host)
}

// CheckSeed rejects seeds on onion hosts that are malformed or that would
// be dialed without a proxy. Other seeds, including unparsable ones, are
// left for the discoverer to judge.
func CheckSeed(seed string, proxied bool) error {
	u, err := url.Parse(strings.TrimSpace(seed))
	if err != nil || !IsOnionHost(u.Hostname()) {
		return nil
	}
	if err := ValidateOnionHost(u.Hostname()); err != nil {
		return err
	}
	if !proxied {
		return fmt.Errorf("%w: %s", ErrOnionRequiresProxy, u.Hostname())
	}
	return nil
}

// IsValidV3Address reports whether address is a v3 onion name whose
// embedded checksum matches its public key.
func IsValidV3Address(address string) bool {
	address = strings.ToLower(address)
	if !onionV3Pattern.MatchString(address) {
		return false
	}

	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(strings.TrimSuffix(address, onionSuffix)))
	if err != nil || len(decoded) != 35 {
		return false
	}

	// 32 byte ed25519 key, 2 byte checksum, 1 byte version
	pubkey, checksum, version := decoded[:32], decoded[32:34], decoded[34]
	if version != onionV3Version {
		return false
	}

	expected := computeV3Checksum(pubkey, version)
	return checksum[0] == expected[0] && checksum[1] == expected[1]
}

// computeV3Checksum returns SHA3-256(".onion checksum" || pubkey || version)[:2].
func computeV3Checksum(pubkey []byte, version byte) []byte {
	data := make([]byte, 0, len(checksumPrefix)+len(pubkey)+1)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)

	hash := sha3.Sum256(data)
	return hash[:2]
}

// V3AddressFromPublicKey returns the v3 onion name for a 32 byte ed25519
// public key.
func V3AddressFromPublicKey(pubkey []byte) (string, error) {
	if len(pubkey) != 32 {
		return "", fmt.Errorf("%w: public key must be 32 bytes, got %d", ErrInvalidOnionAddress, len(pubkey))
	}

	data := make([]byte, 35)
	copy(data[:32], pubkey)
	copy(data[32:34], computeV3Checksum(pubkey, onionV3Version))
	data[34] = onionV3Version

	return strings.ToLower(base32.StdEncoding.EncodeToString(data)) + onionSuffix, nil
}
