package twitter

import (
	"encoding/json"
	"strconv"

	"github.com/bytedance/sonic"

	perr "xfriends/internal/platform/errors"
)

// ids above 2^53 lose precision as float64, so numbers decode as json.Number
var api = sonic.Config{UseNumber: true, ValidateString: true}.Froze()

func decode(body []byte, v any) error {
	if err := api.Unmarshal(body, v); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "malformed x provider payload")
	}
	return nil
}

// rawUser is the union of user object shapes seen across providers
type rawUser struct {
	RestID     any    `json:"rest_id"`
	ID         any    `json:"id"`
	IDStr      string `json:"id_str"`
	UserID     any    `json:"user_id"`
	ScreenName string `json:"screen_name"`
	Username   string `json:"username"`
	Name       string `json:"name"`

	ProfileImageURLHTTPS string `json:"profile_image_url_https"`
	ProfileImageURL      string `json:"profile_image_url"`
	ProfileImage         string `json:"profile_image"`
	ProfilePicURL        string `json:"profile_pic_url"`

	Legacy *struct {
		ScreenName           string `json:"screen_name"`
		Name                 string `json:"name"`
		ProfileImageURLHTTPS string `json:"profile_image_url_https"`
	} `json:"legacy"`
}

func (u rawUser) identity() (Identity, bool) {
	id := firstNonEmpty(str(u.RestID), str(u.ID), u.IDStr, str(u.UserID))
	username := firstNonEmpty(u.ScreenName, u.Username)
	name := u.Name
	img := firstNonEmpty(u.ProfileImageURLHTTPS, u.ProfileImageURL, u.ProfileImage, u.ProfilePicURL)
	if l := u.Legacy; l != nil {
		username = firstNonEmpty(l.ScreenName, username, l.Name)
		name = firstNonEmpty(l.Name, name, l.ScreenName)
		img = firstNonEmpty(l.ProfileImageURLHTTPS, img)
	}
	if username == "" {
		return Identity{}, false
	}
	return Identity{ID: id, Username: username, Name: name, ProfileImageURL: img}, true
}

func identities(us []rawUser) []Identity {
	out := make([]Identity, 0, len(us))
	for _, u := range us {
		if id, ok := u.identity(); ok {
			out = append(out, id)
		}
	}
	return out
}

// str renders the id forms providers use: strings, json numbers, floats
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
