package apiclient

import (
	"context"
	"errors"
	"fmt"
)

// InvalidateSession removes every stored credential and sends the console
// back to EntryPath unless it is already there. Safe to call repeatedly;
// logout uses it too.
func (c *Client) InvalidateSession(ctx context.Context, reason string) error {
	ctx = context.WithoutCancel(ctx)

	b, loadErr := c.store.Load(ctx)
	hadSession := loadErr != nil || b.Present() || b.RefreshToken != ""

	err := c.store.Clear(ctx)
	if err != nil {
		c.log.Error("failed to clear session", "error", err)
		err = fmt.Errorf("failed to clear session: %w", err)
	}

	if c.nav != nil && c.nav.Current() != EntryPath {
		c.nav.Navigate(EntryPath)
	}

	if hadSession {
		c.log.Info("session invalidated", "reason", reason)
		c.observer.SessionInvalidated(reason)
	}
	return err
}

// invalidate tears the session down on behalf of a failed request. apiErr
// is always returned; a failed clear is joined to it.
func (c *Client) invalidate(ctx context.Context, apiErr *APIError, reason string) error {
	if err := c.InvalidateSession(ctx, reason); err != nil {
		return errors.Join(apiErr, err)
	}
	return apiErr
}
