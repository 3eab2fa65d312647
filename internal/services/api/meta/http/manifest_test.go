package http_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "xfriends/internal/platform/errors"
	phttp "xfriends/internal/platform/net/http"
	"xfriends/internal/platform/testkit/apitest"
	metahttp "xfriends/internal/services/api/meta/http"
)

func TestManifest_BuiltFromPublicURL(t *testing.T) {
	src := metahttp.ManifestSource{
		PublicURL:   "https://xfriends.example/",
		Association: &metahttp.AccountAssociation{Header: "h", Payload: "p", Signature: "s"},
	}
	body, err := src.Load()
	require.NoError(t, err)

	var m metahttp.Manifest
	require.NoError(t, sonic.ConfigStd.Unmarshal(body, &m))
	assert.Equal(t, "1", m.Frame.Version)
	assert.Equal(t, "Find X Friends", m.Frame.Name)
	assert.Equal(t, "https://xfriends.example", m.Frame.HomeURL)
	assert.Equal(t, "https://xfriends.example/api/v1/webhook", m.Frame.WebhookURL)
	require.NotNil(t, m.AccountAssociation)
	assert.Equal(t, "s", m.AccountAssociation.Signature)
}

func TestManifest_FileServedVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farcaster.json")
	raw := `{"frame":{"version":"1","name":"Custom","webhookUrl":"https://hooks.example/w"}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	body, err := metahttp.ManifestSource{File: path, PublicURL: "https://ignored.example"}.Load()
	require.NoError(t, err)

	h := apitest.Mount(func(r phttp.Router) { metahttp.MountManifest(r, body) })
	rep := apitest.Do(t, h, apitest.Request{Method: http.MethodGet, Path: metahttp.ManifestPath})
	require.Equal(t, http.StatusOK, rep.Status)
	assert.JSONEq(t, raw, rep.Raw)
}

func TestManifest_Errors(t *testing.T) {
	body, err := metahttp.ManifestSource{}.Load()
	require.NoError(t, err)
	assert.Nil(t, body)

	h := apitest.Mount(func(r phttp.Router) { metahttp.MountManifest(r, body) })
	rep := apitest.Do(t, h, apitest.Request{Method: http.MethodGet, Path: metahttp.ManifestPath})
	assert.Equal(t, http.StatusNotFound, rep.Status)

	_, err = metahttp.ManifestSource{File: filepath.Join(t.TempDir(), "missing.json")}.Load()
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	_, err = metahttp.ManifestSource{File: bad}.Load()
	assert.True(t, perr.IsCode(err, perr.ErrorCodeJSON))
}
