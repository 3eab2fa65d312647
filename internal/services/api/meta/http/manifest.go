package http

import (
	"net/http"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"xfriends/internal/modkit/httpkit"
	perr "xfriends/internal/platform/errors"
	phttp "xfriends/internal/platform/net/http"
)

// ManifestPath is where mini app hosts look for the app manifest
const ManifestPath = "/.well-known/farcaster.json"

// AccountAssociation is the signed domain ownership proof
type AccountAssociation struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// MiniApp is the frame block of the manifest
type MiniApp struct {
	Version               string `json:"version"`
	Name                  string `json:"name"`
	HomeURL               string `json:"homeUrl"`
	IconURL               string `json:"iconUrl"`
	ImageURL              string `json:"imageUrl,omitempty"`
	ButtonTitle           string `json:"buttonTitle,omitempty"`
	SplashImageURL        string `json:"splashImageUrl,omitempty"`
	SplashBackgroundColor string `json:"splashBackgroundColor,omitempty"`
	WebhookURL            string `json:"webhookUrl"`
}

// Manifest is the farcaster.json document
type Manifest struct {
	AccountAssociation *AccountAssociation `json:"accountAssociation,omitempty"`
	Frame              MiniApp             `json:"frame"`
}

// ManifestSource says where the manifest comes from
// a File is served as is; otherwise one is built from PublicURL, and neither means no route
type ManifestSource struct {
	File        string
	PublicURL   string
	Name        string
	Association *AccountAssociation
}

// Load returns the manifest bytes, nil when there is nothing to serve
func (s ManifestSource) Load() ([]byte, error) {
	if s.File != "" {
		raw, err := os.ReadFile(s.File)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "manifest: read %s", s.File)
		}
		var obj map[string]any
		if err := sonic.ConfigStd.Unmarshal(raw, &obj); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "manifest: %s is not a json object", s.File)
		}
		return raw, nil
	}
	base := strings.TrimRight(s.PublicURL, "/")
	if base == "" {
		return nil, nil
	}
	name := s.Name
	if name == "" {
		name = "Find X Friends"
	}
	m := Manifest{
		AccountAssociation: s.Association,
		Frame: MiniApp{
			Version:               "1",
			Name:                  name,
			HomeURL:               base,
			IconURL:               base + "/icon.png",
			ImageURL:              base + "/image.png",
			ButtonTitle:           "Find friends",
			SplashImageURL:        base + "/splash.png",
			SplashBackgroundColor: "#8a63d2",
			WebhookURL:            base + httpkit.APIV1 + "/webhook",
		},
	}
	return sonic.ConfigStd.Marshal(m)
}

// MountManifest serves body verbatim at ManifestPath; hosts read it unwrapped, so it skips the envelope
func MountManifest(r phttp.Router, body []byte) {
	if len(body) == 0 {
		return
	}
	r.Get(ManifestPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write(body)
	})
}
