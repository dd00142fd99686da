package tui

// MsgBanner signals that the banner/title should be displayed.
type MsgBanner struct{ Title string }

// MsgWorking signals that a backend call is in progress.
type MsgWorking struct{ What string }

// MsgAccessTokenRejected signals that the access token was rejected (401).
type MsgAccessTokenRejected struct{}

// MsgRefreshing signals that a token refresh is in progress.
type MsgRefreshing struct{}

// MsgRefreshOK signals that the token was refreshed successfully.
type MsgRefreshOK struct{}

// MsgRefreshFailed signals that token refresh failed.
type MsgRefreshFailed struct{ Err error }

// MsgTokenRefreshedRetrying signals that the original request is being resent.
type MsgTokenRefreshedRetrying struct{}

// MsgSessionInvalidated signals that the stored session was dropped.
type MsgSessionInvalidated struct{ Reason string }

// MsgNavigated signals a change of console surface.
type MsgNavigated struct{ Path string }

// MsgLoggedIn signals a successful login.
type MsgLoggedIn struct {
	Usuario string
	Role    string
	Landing string
}

// MsgInfo carries a neutral line of output.
type MsgInfo struct{ Text string }

// MsgTable carries a result table.
type MsgTable struct{ Table Table }

// MsgAPICallOK signals that an API call succeeded.
type MsgAPICallOK struct{ What string }

// MsgAPICallFailed signals that an API call failed.
type MsgAPICallFailed struct{ Err error }

// MsgDone signals that the command finished.
type MsgDone struct{}

// MsgFatal signals a fatal error that should terminate the command.
type MsgFatal struct{ Err error }
