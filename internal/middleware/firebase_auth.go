package middleware

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
)

// FirebaseVerifier validates Firebase ID tokens and maps the Firebase UID to
// a local user.
type FirebaseVerifier struct {
	client *auth.Client
	users  repositories.UserRepository
}

func NewFirebaseVerifier(client *auth.Client, users repositories.UserRepository) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, users: users}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (models.Actor, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return models.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := v.users.GetUserByFirebaseUID(ctx, token.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Actor{}, fmt.Errorf("%w: no user for firebase uid", ErrInvalidToken)
		}
		return models.Actor{}, err
	}
	return models.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}
