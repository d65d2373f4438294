package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier validates Firebase ID tokens using the Admin SDK, which
// checks the signature against Google's published certificates.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier initializes the Firebase app from service-account
// credentials JSON.
func NewFirebaseVerifier(ctx context.Context, credentialsJSON []byte) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	ident := &Identity{Subject: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		ident.Name = name
	}
	return ident, nil
}
