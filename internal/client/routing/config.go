package routing

// RouteConfig describes where the user is, as far as the decision engine is
// concerned. It is derived per evaluation and never stored.
type RouteConfig struct {
	InAuthGroup         bool
	InTabsGroup         bool
	IsOnWelcomeScreen   bool
	IsOnLoginPasscode   bool
	IsOnVerifyEmail     bool
	IsOnCreatePasscode  bool
	IsOnConfirmPasscode bool
}

// BuildRouteConfig derives a RouteConfig from the current segments and path.
// Comparisons are exact: no normalisation, no trailing-slash tolerance.
func BuildRouteConfig(segments []string, path string) RouteConfig {
	var first string
	if len(segments) > 0 {
		first = segments[0]
	}

	return RouteConfig{
		InAuthGroup:         first == groupAuth,
		InTabsGroup:         first == groupTabs,
		IsOnWelcomeScreen:   path == pathWelcome,
		IsOnLoginPasscode:   path == pathLoginPasscode,
		IsOnVerifyEmail:     path == pathVerifyEmail,
		IsOnCreatePasscode:  path == pathCreatePasscode,
		IsOnConfirmPasscode: path == pathConfirmPasscode,
	}
}

// InCriticalFlow reports whether the user is on a screen of a multi-step
// flow that an automatic redirect must not interrupt.
func (c RouteConfig) InCriticalFlow() bool {
	return c.IsOnLoginPasscode || c.IsOnVerifyEmail || c.IsOnCreatePasscode || c.IsOnConfirmPasscode
}
