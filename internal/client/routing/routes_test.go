package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHref(t *testing.T) {
	tests := []struct {
		href string
		want Location
	}{
		{"/", Location{Path: "/"}},
		{"", Location{Path: "/"}},
		{RouteSignIn, Location{Segments: []string{"(auth)", "sign-in"}, Path: "/sign-in"}},
		{RouteVerifyEmail, Location{Segments: []string{"(auth)", "verify-email"}, Path: "/verify-email"}},
		{"/(auth)", Location{Segments: []string{"(auth)", "sign-in"}, Path: "/sign-in"}},
		{RouteTabs, Location{Segments: []string{"(tabs)", "wallet"}, Path: "/wallet"}},
		{RouteSettings, Location{Segments: []string{"(tabs)", "settings"}, Path: "/settings"}},
		{"/somewhere/else", Location{Segments: []string{"somewhere", "else"}, Path: "/somewhere/else"}},
		{"//(auth)//login-passcode/", Location{Segments: []string{"(auth)", "login-passcode"}, Path: "/login-passcode"}},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got := ParseHref(tt.href)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseHref(%q) mismatch (-want +got):\n%s", tt.href, diff)
			}
		})
	}
}

func TestLocation_Href(t *testing.T) {
	if got := (Location{}).Href(); got != "/" {
		t.Errorf("empty location href = %q", got)
	}
	if got := ParseHref(RouteTabs).Href(); got != RouteWallet {
		t.Errorf("tabs href = %q, want %q", got, RouteWallet)
	}
	if got := ParseHref(RouteConfirmPasscode).Href(); got != RouteConfirmPasscode {
		t.Errorf("confirm href = %q", got)
	}
}
