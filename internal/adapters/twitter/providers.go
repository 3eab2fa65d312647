package twitter

import (
	"net/http"
	"net/url"
	"strconv"

	perr "xfriends/internal/platform/errors"
)

// Provider ids
const (
	Twitter241   = "twitter241"
	TwitterAPI45 = "twitter-api45"
	Twitter154   = "twitter154"
	Generic      = "generic"
	XAPI         = "xapi"
)

func init() {
	Register(Twitter241, func(c Credentials) Provider { return &twitter241{rapid: newRapid(c, "twitter241.p.rapidapi.com")} })
	Register(TwitterAPI45, func(c Credentials) Provider { return &twitterAPI45{rapid: newRapid(c, "twitter-api45.p.rapidapi.com")} })
	Register(Twitter154, func(c Credentials) Provider { return &twitter154{rapid: newRapid(c, "twitter154.p.rapidapi.com")} })
	Register(Generic, func(c Credentials) Provider { return &generic{rapid: newRapid(c, "twitter241.p.rapidapi.com")} })
	Register(XAPI, func(c Credentials) Provider { return &xapi{token: c.BearerToken} })
}

// rapid holds what every rapidapi hosted provider shares
type rapid struct {
	key  string
	host string
}

func newRapid(c Credentials, defHost string) rapid {
	h := c.Host
	if h == "" {
		h = defHost
	}
	return rapid{key: c.APIKey, host: h}
}

func (r rapid) BaseURL() string { return "https://" + r.host }

func (r rapid) Authorize(h http.Header) {
	h.Set("X-RapidAPI-Key", r.key)
	h.Set("X-RapidAPI-Host", r.host)
}

// flatProfile reads a {user:{...}} or bare user object
func flatProfile(body []byte) (Identity, bool, error) {
	var env struct {
		User *rawUser `json:"user"`
		Data *rawUser `json:"data"`
		rawUser
	}
	if err := decode(body, &env); err != nil {
		return Identity{}, false, err
	}
	switch {
	case env.User != nil:
		id, ok := env.User.identity()
		return id, ok, nil
	case env.Data != nil:
		id, ok := env.Data.identity()
		return id, ok, nil
	}
	id, ok := env.rawUser.identity()
	return id, ok, nil
}

// twitter241 (Twttr API)

type twitter241 struct{ rapid }

func (twitter241) ID() string { return Twitter241 }

func (twitter241) Endpoint(dir Direction, subject string, count int, cursor string) (string, url.Values) {
	q := url.Values{"username": {subject}, "count": {strconv.Itoa(count)}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if dir == Followers {
		return "/user-followers", q
	}
	return "/user-followings", q
}

type timelineEntry struct {
	Content struct {
		CursorType  string `json:"cursorType"`
		Value       string `json:"value"`
		ItemContent *struct {
			UserResults struct {
				Result *rawUser `json:"result"`
			} `json:"user_results"`
		} `json:"itemContent"`
	} `json:"content"`
}

type timelinePayload struct {
	Result *struct {
		Timeline struct {
			Instructions []struct {
				Entries []timelineEntry `json:"entries"`
			} `json:"instructions"`
		} `json:"timeline"`
	} `json:"result"`
	Cursor struct {
		Bottom string `json:"bottom"`
	} `json:"cursor"`
	NextCursor string    `json:"next_cursor"`
	Following  []rawUser `json:"following"`
	Followers  []rawUser `json:"followers"`
	Users      []rawUser `json:"users"`
}

func (twitter241) Parse(dir Direction, body []byte) (Page, error) {
	var p timelinePayload
	if err := decode(body, &p); err != nil {
		return Page{}, err
	}

	if p.Result != nil && len(p.Result.Timeline.Instructions) > 0 {
		var page Page
		bottom := ""
		for _, inst := range p.Result.Timeline.Instructions {
			for _, e := range inst.Entries {
				if e.Content.CursorType == "Bottom" {
					bottom = e.Content.Value
					continue
				}
				if ic := e.Content.ItemContent; ic != nil && ic.UserResults.Result != nil {
					if id, ok := ic.UserResults.Result.identity(); ok {
						page.Users = append(page.Users, id)
					}
				}
			}
		}
		page.Next = firstNonEmpty(p.Cursor.Bottom, bottom, p.NextCursor)
		return page, nil
	}

	list := p.Following
	if dir == Followers {
		list = p.Followers
	}
	if list == nil {
		list = p.Users
	}
	if list == nil {
		return Page{}, perr.Upstreamf("malformed x provider payload")
	}
	return Page{Users: identities(list), Next: firstNonEmpty(p.Cursor.Bottom, p.NextCursor)}, nil
}

func (twitter241) ProfileEndpoint(username string) (string, url.Values) {
	return "/user", url.Values{"username": {username}}
}

func (twitter241) ParseProfile(body []byte) (Identity, bool, error) {
	var p struct {
		Result struct {
			Data struct {
				User struct {
					Result *rawUser `json:"result"`
				} `json:"user"`
			} `json:"data"`
		} `json:"result"`
	}
	if err := decode(body, &p); err != nil {
		return Identity{}, false, err
	}
	if r := p.Result.Data.User.Result; r != nil {
		id, ok := r.identity()
		return id, ok, nil
	}
	return flatProfile(body)
}

// twitter-api45

type twitterAPI45 struct{ rapid }

func (twitterAPI45) ID() string { return TwitterAPI45 }

func (twitterAPI45) Endpoint(dir Direction, subject string, _ int, cursor string) (string, url.Values) {
	q := url.Values{"username": {subject}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if dir == Followers {
		return "/followers.php", q
	}
	return "/following.php", q
}

func (twitterAPI45) Parse(dir Direction, body []byte) (Page, error) {
	var p struct {
		Following  []rawUser `json:"following"`
		Followers  []rawUser `json:"followers"`
		NextCursor string    `json:"next_cursor"`
		MoreUsers  *bool     `json:"more_users"`
	}
	if err := decode(body, &p); err != nil {
		return Page{}, err
	}
	list := p.Following
	if dir == Followers {
		list = p.Followers
	}
	if list == nil {
		return Page{}, perr.Upstreamf("malformed x provider payload")
	}
	next := p.NextCursor
	if p.MoreUsers != nil && !*p.MoreUsers {
		next = ""
	}
	return Page{Users: identities(list), Next: next}, nil
}

func (twitterAPI45) ProfileEndpoint(username string) (string, url.Values) {
	return "/screenname.php", url.Values{"screenname": {username}}
}

func (twitterAPI45) ParseProfile(body []byte) (Identity, bool, error) { return flatProfile(body) }

// twitter154

type twitter154 struct{ rapid }

func (twitter154) ID() string { return Twitter154 }

func (twitter154) Endpoint(dir Direction, subject string, count int, cursor string) (string, url.Values) {
	q := url.Values{"username": {subject}, "limit": {strconv.Itoa(count)}}
	path := "/user/following"
	if dir == Followers {
		path = "/user/followers"
	}
	if cursor != "" {
		q.Set("continuation_token", cursor)
		path += "/continuation"
	}
	return path, q
}

func (twitter154) Parse(_ Direction, body []byte) (Page, error) {
	var p struct {
		Results           []rawUser `json:"results"`
		ContinuationToken string    `json:"continuation_token"`
	}
	if err := decode(body, &p); err != nil {
		return Page{}, err
	}
	if p.Results == nil {
		return Page{}, perr.Upstreamf("malformed x provider payload")
	}
	return Page{Users: identities(p.Results), Next: p.ContinuationToken}, nil
}

func (twitter154) ProfileEndpoint(username string) (string, url.Values) {
	return "/user/details", url.Values{"username": {username}}
}

func (twitter154) ParseProfile(body []byte) (Identity, bool, error) { return flatProfile(body) }

// generic: a top level array or a data array

type generic struct{ rapid }

func (generic) ID() string { return Generic }

func (generic) Endpoint(dir Direction, subject string, count int, cursor string) (string, url.Values) {
	q := url.Values{"username": {subject}, "count": {strconv.Itoa(count)}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if dir == Followers {
		return "/user-followers", q
	}
	return "/user-followings", q
}

func (generic) Parse(_ Direction, body []byte) (Page, error) {
	var arr []rawUser
	if err := api.Unmarshal(body, &arr); err == nil {
		return Page{Users: identities(arr)}, nil
	}
	var p struct {
		Data       []rawUser `json:"data"`
		NextCursor string    `json:"next_cursor"`
	}
	if err := decode(body, &p); err != nil {
		return Page{}, err
	}
	if p.Data == nil {
		return Page{}, perr.Upstreamf("malformed x provider payload")
	}
	return Page{Users: identities(p.Data), Next: p.NextCursor}, nil
}

func (generic) ProfileEndpoint(username string) (string, url.Values) {
	return "/user.php", url.Values{"username": {username}}
}

func (generic) ParseProfile(body []byte) (Identity, bool, error) { return flatProfile(body) }

// xapi: X API v2 with a bearer token; list endpoints take the numeric user id

const xapiUserFields = "id,username,name,profile_image_url"

type xapi struct{ token string }

func (xapi) ID() string      { return XAPI }
func (xapi) BaseURL() string { return "https://api.twitter.com" }

func (x xapi) Authorize(h http.Header) { h.Set("Authorization", "Bearer "+x.token) }

func (xapi) Endpoint(dir Direction, subject string, count int, cursor string) (string, url.Values) {
	q := url.Values{
		"max_results": {strconv.Itoa(min(max(count, 1), 1000))},
		"user.fields": {xapiUserFields},
	}
	if cursor != "" {
		q.Set("pagination_token", cursor)
	}
	return "/2/users/" + url.PathEscape(subject) + "/" + string(dir), q
}

func (xapi) Parse(_ Direction, body []byte) (Page, error) {
	var p struct {
		Data []rawUser `json:"data"`
		Meta struct {
			NextToken   string `json:"next_token"`
			ResultCount *int   `json:"result_count"`
		} `json:"meta"`
	}
	if err := decode(body, &p); err != nil {
		return Page{}, err
	}
	// an empty last page omits data but still reports a count
	if p.Data == nil && p.Meta.ResultCount == nil {
		return Page{}, perr.Upstreamf("malformed x provider payload")
	}
	return Page{Users: identities(p.Data), Next: p.Meta.NextToken}, nil
}

func (xapi) SubjectEndpoint(username string) (string, url.Values) {
	return "/2/users/by/username/" + url.PathEscape(username), nil
}

func (x xapi) ParseSubject(body []byte) (string, error) {
	id, ok, err := x.ParseProfile(body)
	if err != nil {
		return "", err
	}
	if !ok || id.ID == "" {
		return "", perr.NotFoundf("x user not found")
	}
	return id.ID, nil
}

func (xapi) ProfileEndpoint(username string) (string, url.Values) {
	return "/2/users/by/username/" + url.PathEscape(username), url.Values{"user.fields": {xapiUserFields}}
}

func (xapi) ParseProfile(body []byte) (Identity, bool, error) {
	var p struct {
		Data *rawUser `json:"data"`
	}
	if err := decode(body, &p); err != nil {
		return Identity{}, false, err
	}
	if p.Data == nil {
		return Identity{}, false, nil
	}
	id, ok := p.Data.identity()
	return id, ok, nil
}
