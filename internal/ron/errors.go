package ron

import "fmt"

// RemoteFault is an application-level rejection returned by the RON
// host, distinct from a transport failure. The message text is the
// host's own fault string and is passed through to partner responses
// verbatim.
type RemoteFault struct {
	Code    int
	Message string
}

func (e *RemoteFault) Error() string {
	return fmt.Sprintf("ron fault %d: %s", e.Code, e.Message)
}

// ConnectivityError is a transport-level failure: the host was
// unreachable or the protocol exchange itself failed. It is never
// mapped onto the partner error taxonomy; callers surface it as a
// distinct fatal condition for the current request.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("ron %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
