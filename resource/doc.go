// Package resource limits the native I/O issued on behalf of file handles.
//
// The Controller manages two resource types:
//
//   - Concurrency: the number of native requests executing at once
//   - IO: a token bucket on bytes read and written
//
// # Request Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentRequests: 4,
//	})
//
//	if err := rc.AcquireRequest(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseRequest()
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 100 * 1024 * 1024, // 100MB/s
//	})
//
//	if err := rc.AcquireIO(ctx, 4096); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
