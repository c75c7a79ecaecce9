package cf

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const challengePage = `<!DOCTYPE html><html><head><title>Just a moment...</title></head>
<body><form id="challenge-form" action="/?__cf_chl_f_tk=abc" method="POST"></form>
<script src="/cdn-cgi/challenge-platform/h/b/orchestrate/jsch/v1"></script></body></html>`

func TestBodyMarkers(t *testing.T) {
	markers := BodyMarkers(challengePage)
	assert.Contains(t, markers, "Cloudflare challenge page")
	assert.Contains(t, markers, "Cloudflare challenge form")
	assert.Contains(t, markers, "Cloudflare challenge JS")

	assert.Empty(t, BodyMarkers(`<html><head><title>Gallery</title></head><body>be back in just a moment</body></html>`))
	assert.Empty(t, BodyMarkers(`<script src="/cdn-cgi/challenge-platform/scripts/jsd/main.js"></script>`))
	assert.NotEmpty(t, BodyMarkers(`<p>Checking your browser before accessing nhentai.net</p>`))
}

func TestDetect(t *testing.T) {
	ok, info := Detect(http.StatusOK, http.Header{}, []byte(challengePage))
	require.True(t, ok)
	assert.Equal(t, "/?__cf_chl_f_tk=abc", info.FormAction)

	ok, info = Detect(http.StatusForbidden, http.Header{"Cf-Ray": {"123-LHR"}}, []byte("denied"))
	require.True(t, ok)
	assert.Equal(t, "123-LHR", info.RayID)
	assert.Contains(t, info.Indicators, "403 Forbidden")

	ok, info = Detect(http.StatusOK, nil, []byte("<html><title>Gallery</title></html>"))
	assert.False(t, ok)
	assert.Nil(t, info)
}

func TestIsChallenge(t *testing.T) {
	err := &ChallengeError{URL: "https://nhentai.net/g/1/", StatusCode: 503}
	ce, ok := IsChallenge(err)
	require.True(t, ok)
	assert.Equal(t, 503, ce.StatusCode)

	_, ok = IsChallenge(assert.AnError)
	assert.False(t, ok)
}
