package firebase

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

var errNotInitialized = errors.New("firebase auth is not initialized")

var firebaseAuthClient *auth.Client

// InitFirebaseSdk creates the auth client used to verify player ID tokens. An empty
// projectId falls back to the application default credentials' project.
func InitFirebaseSdk(ctx context.Context, projectId string) error {
	var config *firebase.Config
	if projectId != "" {
		config = &firebase.Config{ProjectID: projectId}
	}

	app, err := firebase.NewApp(ctx, config)
	if err != nil {
		return fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("creating firebase auth client: %w", err)
	}
	firebaseAuthClient = client
	return nil
}

func VerifyIdToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if firebaseAuthClient == nil {
		return nil, errNotInitialized
	}
	return firebaseAuthClient.VerifyIDToken(ctx, idToken)
}
