package routing

import "strings"

// Route hrefs. Group segments are wrapped in parentheses and do not appear
// in the path a Location reports.
const (
	RouteWelcome         = "/"
	RouteSignIn          = "/(auth)/sign-in"
	RouteSignUp          = "/(auth)/sign-up"
	RouteVerifyEmail     = "/(auth)/verify-email"
	RouteLoginPasscode   = "/(auth)/login-passcode"
	RouteCreatePasscode  = "/(auth)/create-passcode"
	RouteConfirmPasscode = "/(auth)/confirm-passcode"
	RouteTabs            = "/(tabs)"
	RouteWallet          = "/(tabs)/wallet"
	RoutePortfolio       = "/(tabs)/portfolio"
	RouteSettings        = "/(tabs)/settings"
)

const (
	groupAuth = "(auth)"
	groupTabs = "(tabs)"
)

// Paths reported for the screens the decision engine cares about.
const (
	pathWelcome         = "/"
	pathLoginPasscode   = "/login-passcode"
	pathVerifyEmail     = "/verify-email"
	pathCreatePasscode  = "/create-passcode"
	pathConfirmPasscode = "/confirm-passcode"
)

// groupIndex is the screen a bare group href lands on.
var groupIndex = map[string]string{
	groupAuth: "sign-in",
	groupTabs: "wallet",
}

// Location is where the navigation host currently is.
type Location struct {
	// Segments are the route segments including groups, e.g. ["(auth)", "verify-email"].
	Segments []string
	// Path is the URL path without groups, e.g. "/verify-email".
	Path string
}

// Href rebuilds the href the location was parsed from.
func (l Location) Href() string {
	if len(l.Segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(l.Segments, "/")
}

// ParseHref turns an href into a Location. A href that ends in a group
// resolves to that group's index screen.
func ParseHref(href string) Location {
	var segments []string
	for _, s := range strings.Split(href, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	if n := len(segments); n > 0 {
		if index, ok := groupIndex[segments[n-1]]; ok {
			segments = append(segments, index)
		}
	}

	var visible []string
	for _, s := range segments {
		if !isGroup(s) {
			visible = append(visible, s)
		}
	}

	return Location{Segments: segments, Path: "/" + strings.Join(visible, "/")}
}

func isGroup(segment string) bool {
	return strings.HasPrefix(segment, "(") && strings.HasSuffix(segment, ")")
}
