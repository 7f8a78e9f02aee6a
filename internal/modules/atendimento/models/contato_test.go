package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5511999999999@s.whatsapp.net", "5511999999999"},
		{"+55 (11) 99999-9999", "5511999999999"},
		{"5511999999999", "5511999999999"},
		{"@s.whatsapp.net", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestNormalizePhoneIdempotente(t *testing.T) {
	once := NormalizePhone("5511988887777@s.whatsapp.net")
	assert.Equal(t, once, NormalizePhone(once))
}
