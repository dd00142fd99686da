package apiclient

// Observer receives session lifecycle events so a UI can report them.
// Methods are called synchronously from request goroutines.
type Observer interface {
	AccessTokenRejected()
	Refreshing()
	RefreshOK()
	RefreshFailed(err error)
	TokenRefreshedRetrying()
	SessionInvalidated(reason string)
}

// Navigator is the console's notion of "current screen". The session
// invalidator sends the user back to EntryPath through it.
type Navigator interface {
	Current() string
	Navigate(path string)
}

type noopObserver struct{}

func (noopObserver) AccessTokenRejected()        {}
func (noopObserver) Refreshing()                 {}
func (noopObserver) RefreshOK()                  {}
func (noopObserver) RefreshFailed(_ error)       {}
func (noopObserver) TokenRefreshedRetrying()     {}
func (noopObserver) SessionInvalidated(_ string) {}
