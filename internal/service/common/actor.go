//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// DetectActor identifies the person at this machine by hostname and OS user.
// The pair selects the countdown session on the server.
func DetectActor() (*domain.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &domain.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
