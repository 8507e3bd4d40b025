package auth

import (
	"net/url"
	"strings"
)

// IntentKind enumerates how the current invocation is trying to
// authenticate.
type IntentKind int

const (
	// IntentNone means no fragment credential is present.
	IntentNone IntentKind = iota
	// IntentMagicLink is a magic-link token delivered in a fragment.
	IntentMagicLink
	// IntentOIDC is a token delivered by the OIDC return redirect.
	IntentOIDC
)

// Intent is the transient authentication input derived once from a
// callback URL fragment. It is never persisted.
type Intent struct {
	Kind  IntentKind
	Token string
}

// ParseFragment derives the auth intent from a URL fragment (the
// portion after '#', with or without the leading '#'), encoded as
// query parameters: token=<opaque>&source=<magic|magiclink|oidc>.
// Anything else, including a token with an unknown source or a source
// without a token, yields IntentNone.
func ParseFragment(fragment string) Intent {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return Intent{Kind: IntentNone}
	}

	params, err := url.ParseQuery(fragment)
	if err != nil {
		return Intent{Kind: IntentNone}
	}

	token := params.Get("token")
	if token == "" {
		return Intent{Kind: IntentNone}
	}

	switch params.Get("source") {
	case "magic", "magiclink":
		return Intent{Kind: IntentMagicLink, Token: token}
	case "oidc":
		return Intent{Kind: IntentOIDC, Token: token}
	default:
		return Intent{Kind: IntentNone}
	}
}
