package urlparse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpreq/internal/urlparse"
)

func TestParse_HTTP(t *testing.T) {
	u, err := urlparse.Parse("http://h:81/x")
	require.NoError(t, err)
	assert.False(t, u.HTTPS)
	assert.Equal(t, "h", u.Host)
	assert.Equal(t, "81", u.Port)
	assert.Equal(t, "/x", u.Path)
}

func TestParse_DefaultPorts(t *testing.T) {
	u, err := urlparse.Parse("http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "80", u.Port)
	assert.Equal(t, "/", u.Path)

	u, err = urlparse.Parse("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "443", u.Port)
}

func TestParse_ColonAfterSlashIsPath(t *testing.T) {
	u, err := urlparse.Parse("http://example.com/a:b")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "80", u.Port)
	assert.Equal(t, "/a:b", u.Path)
}

func TestParse_RejectsUnknownScheme(t *testing.T) {
	_, err := urlparse.Parse("ftp://example.com")
	assert.ErrorIs(t, err, urlparse.ErrInvalidURL)
}

func TestParse_RejectsEmptyAuthority(t *testing.T) {
	_, err := urlparse.Parse("http:///path")
	assert.Error(t, err)
}

func TestParse_HostLengthLimit(t *testing.T) {
	longHost := strings.Repeat("a", urlparse.MaxHostLen+1)
	_, err := urlparse.Parse("http://" + longHost + "/")
	assert.Error(t, err)
}

func TestParse_PathTruncatedAtLimit(t *testing.T) {
	longPath := "/" + strings.Repeat("a", urlparse.MaxPathLen+10)
	u, err := urlparse.Parse("http://h" + longPath)
	require.NoError(t, err)
	assert.Len(t, u.Path, urlparse.MaxPathLen)
}

func TestParse_Invertible(t *testing.T) {
	u, err := urlparse.Parse("http://h:p/x")
	require.NoError(t, err)
	assert.Equal(t, urlparse.URL{HTTPS: false, Host: "h", Port: "p", Path: "/x"}, u)
}

func TestDefaultPort(t *testing.T) {
	assert.Equal(t, "80", urlparse.DefaultPort(false))
	assert.Equal(t, "443", urlparse.DefaultPort(true))
}

func TestIsDefaultPort(t *testing.T) {
	assert.True(t, urlparse.IsDefaultPort(false, "80"))
	assert.False(t, urlparse.IsDefaultPort(false, "8080"))
	assert.True(t, urlparse.IsDefaultPort(true, "443"))
}
