package logx

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestComponentTagsSubsystem(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })

	logger := Component("Registry")
	logger.Info().Msg("ready")

	assert.Contains(t, buf.String(), `"component":"Registry"`)
	assert.Contains(t, buf.String(), `"message":"ready"`)
}

func TestAnonymizeIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"203.0.113.42:8080", "203.0.113.0"},
		{"203.0.113.42", "203.0.113.0"},
		{"127.0.0.1:9000", "127.0.0.1"},
		{"[2001:db8::1]:443", "2001:db8::"},
		{"not-an-ip", "unknown_ip"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, anonymizeIP(tc.in), "input %q", tc.in)
	}
}
