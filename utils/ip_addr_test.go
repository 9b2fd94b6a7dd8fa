package utils

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIpAddress(t *testing.T) {
	assert.Equal(t, "", GetIpAddress(nil))

	v4 := &net.TCPAddr{IP: net.ParseIP("203.0.113.7"), Port: 54321}
	assert.Equal(t, "203.0.113.7", GetIpAddress(v4))

	v6 := &net.TCPAddr{IP: net.ParseIP("2001:db8::1"), Port: 54321}
	assert.Equal(t, "2001:db8::1", GetIpAddress(v6))

	mapped := &net.TCPAddr{IP: net.ParseIP("::ffff:192.0.2.9"), Port: 80}
	assert.Equal(t, "192.0.2.9", GetIpAddress(mapped))
}
