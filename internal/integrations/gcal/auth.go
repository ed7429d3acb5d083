package gcal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
)

// Authorize runs the installed-app OAuth flow: it prints the consent URL
// to out, reads the pasted authorization code from in, exchanges it and
// writes the token to tokenFile.
func Authorize(ctx context.Context, credentialsFile, tokenFile string, in io.Reader, out io.Writer) error {
	cfg, err := oauthConfig(credentialsFile)
	if err != nil {
		return err
	}
	authURL := cfg.AuthCodeURL("roku-state", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open this link in your browser and authorize access:\n\n%s\n\nPaste the authorization code: ", authURL)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("gcal: read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("gcal: empty authorization code")
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("gcal: exchange authorization code: %w", err)
	}
	if err := saveToken(tokenFile, tok); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved token to %s\n", tokenFile)
	return nil
}
