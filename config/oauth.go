package config

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleOAuthConfig is nil until InitGoogleOAuth finds client credentials.
var GoogleOAuthConfig *oauth2.Config

func InitGoogleOAuth(cfg *Config) {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		GoogleOAuthConfig = nil
		return
	}
	GoogleOAuthConfig = &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}
