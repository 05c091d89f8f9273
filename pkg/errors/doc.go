// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	f, err := os.CreateTemp(dir, prefix)
//	if err != nil {
//	    return errors.WrapWithContext(
//	        errors.ErrCodeIO,
//	        "failed to create scratch file",
//	        err,
//	        map[string]any{
//	            "dir":    dir,
//	            "prefix": prefix,
//	        },
//	    )
//	}
//
// Use CodeOf to map an error chain to a code, e.g. when choosing an HTTP status.
package errors
