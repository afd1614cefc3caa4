package stubdns

import (
	"net"
	"strconv"
)

const hexDigits = "0123456789abcdef"

// ReverseName returns the reverse-lookup domain for a raw 4-byte IPv4
// or 16-byte IPv6 address. IPv4 addresses become octet-reversed
// decimal names under in-addr.arpa, IPv6 addresses become 32 reversed
// lowercase hex nibbles under ip6.arpa. Any other input length fails
// with InvalidAddressLengthError.
//
// For example, [192,0,2,1] yields "1.2.0.192.in-addr.arpa".
func ReverseName(addr []byte) (string, error) {
	switch len(addr) {
	case net.IPv4len:
		b := make([]byte, 0, len("255.255.255.255.in-addr.arpa"))
		for i := net.IPv4len - 1; i >= 0; i-- {
			b = strconv.AppendUint(b, uint64(addr[i]), 10)
			b = append(b, '.')
		}
		return string(append(b, "in-addr.arpa"...)), nil
	case net.IPv6len:
		b := make([]byte, 0, 4*net.IPv6len+len("ip6.arpa"))
		for i := net.IPv6len - 1; i >= 0; i-- {
			// low nibble before high nibble: the address-order
			// nibble sequence has the high nibble first, and the
			// whole sequence is reversed here.
			b = append(b, hexDigits[addr[i]&0xf], '.', hexDigits[addr[i]>>4], '.')
		}
		return string(append(b, "ip6.arpa"...)), nil
	}
	return "", &InvalidAddressLengthError{Length: len(addr)}
}
