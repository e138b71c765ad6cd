/*
Package errors provides semantic error types for the contenttemplate library.

The package defines the failure taxonomy of the template and its backends
with specific types that can be checked using the standard errors.Is()
function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("not found")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrInvalidState    = errors.New("invalid state")
	    ErrRemote          = errors.New("remote provider call failed")
	    ErrUnrecoverable   = errors.New("unrecoverable provider failure")
	    ErrNoSuchColumn    = errors.New("no such column")
	    ErrConditionFailed = errors.New("condition check failed")
	)

A dedicated provider client reports a broken connection with ErrRemote. The
template re-signals it as an *UnrecoverableError naming the operation:

	_, err := contenttemplate.Insert(ctx, tmpl, addr, note, noteValues)
	if errors.IsUnrecoverable(err) {
	    // the client is unusable; acquire a new one
	}

Errors returned on the shared resolver path are passed through untouched.
*/
package errors
