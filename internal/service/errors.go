package service

import (
	"fmt"

	"soundnest/internal/domain"
)

// internalize wraps storage failures that are not part of the error taxonomy.
func internalize(err error) error {
	if err == nil || domain.IsKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrInternal, err)
}
