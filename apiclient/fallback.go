package apiclient

import (
	"context"
	"errors"
)

// DoFallback sends r to each path in turn and returns the first success.
// It only moves to the next path when the server answers 404 or 405; any
// other failure is returned immediately.
func (c *Client) DoFallback(ctx context.Context, r *Request, paths ...string) (*Response, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths given")
	}

	var lastErr error
	for _, p := range paths {
		attempt := *r
		attempt.Path = p

		resp, err := c.Do(ctx, &attempt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNotFound) {
			break
		}
	}
	return nil, lastErr
}
