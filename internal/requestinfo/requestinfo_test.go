package requestinfo

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_AttachesInfo(t *testing.T) {
	var got *RequestInfo
	h := Enrich(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/survey", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.6422.60 Safari/537.36")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.8")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "/survey", got.Path)
	assert.Equal(t, "id-id", got.PrimaryLang)
	assert.Equal(t, "Desktop", got.UA.Device)
	assert.True(t, got.Geo.IP.Equal(net.ParseIP("203.0.113.7")))
	assert.Empty(t, got.Geo.CountryISO)
	assert.False(t, got.Timestamp.IsZero())
}

func TestFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(req.Context()))
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "garbage, 198.51.100.2"}, "192.0.2.1:1234", "198.51.100.2"},
		{"real ip", map[string]string{"X-Real-Ip": "198.51.100.9"}, "192.0.2.1:1234", "198.51.100.9"},
		{"remote", nil, "192.0.2.1:1234", "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, clientIP(req).String())
		})
	}
}

func TestLocator_NilIsSafe(t *testing.T) {
	var l *Locator
	ip := net.ParseIP("192.0.2.1")
	assert.Equal(t, Geo{IP: ip}, l.Lookup(ip))
	assert.NoError(t, l.Close())
}

func TestOpenGeo_MissingFile(t *testing.T) {
	_, err := OpenGeo("/does/not/exist.mmdb", 16)
	assert.Error(t, err)
}

func TestPrimaryLang(t *testing.T) {
	assert.Equal(t, "", primaryLang(""))
	assert.Equal(t, "en", primaryLang("EN;q=0.8"))
	assert.Equal(t, "id", primaryLang(" id , en"))
}
