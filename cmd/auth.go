package main

import (
	"context"
	"fmt"

	"github.com/plsync/plsync/internal/server"
	"github.com/plsync/plsync/internal/shared"
	"github.com/urfave/cli/v3"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// AuthStatus reports which credentials are configured without printing
// any secrets.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Credential status")

	spotify := r.config.Credentials.Spotify
	r.writePlain("Spotify\n")
	r.writePlain("   client id:     %s\n", configuredLabel(spotify.ClientID != ""))
	r.writePlain("   client secret: %s\n", configuredLabel(spotify.ClientSecret != ""))
	r.writePlain("   refresh token: %s\n", configuredLabel(spotify.RefreshToken != ""))
	r.writePlain("   service:       %s\n", readyLabel(r.source != nil))

	tidal := r.config.Credentials.Tidal
	r.writePlain("Tidal\n")
	r.writePlain("   client id:     %s\n", configuredLabel(tidal.ClientID != ""))
	r.writePlain("   access token:  %s\n", configuredLabel(tidal.AccessToken != ""))
	r.writePlain("   user id:       %s\n", configuredLabel(tidal.UserID != ""))
	r.writePlain("   service:       %s\n", readyLabel(r.dest != nil))

	return nil
}

// AuthLogin runs the Spotify authorization code flow and prints the
// resulting refresh token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client id and secret are required", shared.ErrMissingCredentials)
	}

	listenAddr := cmd.String("listen")
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://%s/callback", listenAddr),
		Scopes: []string{
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistReadCollaborative,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopeUserLibraryModify,
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}

	flow, err := server.NewAuthFlow(conf, listenAddr, r.logger)
	if err != nil {
		return err
	}

	r.writePlain("Open this URL in your browser to authorize:\n\n")
	r.writePlain("   %s\n\n", flow.AuthURL())
	r.writePlain("Waiting for the callback on %s...\n", listenAddr)

	token, err := flow.Wait(ctx)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}
	if token.RefreshToken == "" {
		return fmt.Errorf("authorization completed but no refresh token was granted")
	}

	r.writePlain("\nAuthorization complete. Add this to your .env or config.toml:\n\n")
	r.writePlain("   SPOTIFY_REFRESH_TOKEN=%s\n", token.RefreshToken)
	return nil
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "missing"
}

func readyLabel(ok bool) string {
	if ok {
		return "ready"
	}
	return "unavailable"
}
