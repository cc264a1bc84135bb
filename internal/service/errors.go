package service

import (
	"errors"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

var (
	ErrNotSignedIn   = errors.New("sign in to continue")
	ErrNoResult      = errors.New("no completed quiz to show")
	ErrQuizNotLoaded = errors.New("no quiz in progress")
)

func requireSignedIn(id entities.Identity) error {
	if !id.SignedIn || id.UserID == "" {
		return ErrNotSignedIn
	}
	return nil
}
