package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor.
const PasswordCost = 10

// HashPassword returns the bcrypt hash of plain. The hashing runs on its own
// goroutine so that a cancelled ctx returns immediately.
func HashPassword(ctx context.Context, plain string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		hash []byte
		err  error
	}

	done := make(chan result, 1)
	go func() {
		h, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
		done <- result{h, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, bcrypt.ErrPasswordTooLong) {
				return "", fmt.Errorf("%w: password too long", common.ErrorInvalidInput)
			}
			return "", fmt.Errorf("hash password: %w", r.err)
		}
		return string(r.hash), nil
	}
}

// ComparePassword reports whether plain matches hash. A mismatch is not an
// error; a malformed hash or a cancelled ctx is.
func ComparePassword(ctx context.Context, hash, plain string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	done := make(chan error, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-done:
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("compare password: %w", err)
		}
	}
}
