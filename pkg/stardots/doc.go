// Package stardots provides a client for the StarDots object storage API.
//
// This package wraps the low-level API client (pkg/api) with a typed,
// developer-friendly interface that handles:
//   - Request signing (timestamp, nonce and MD5 signature headers)
//   - Per-call timeouts
//   - Typed results for every operation
//   - Type-safe error handling
//   - Context-aware operations
//
// There are no retries. Every call is a single HTTP exchange and failures
// are returned to the caller immediately.
//
// # Basic Usage
//
// Create a client and perform operations:
//
//	c, err := stardots.New(os.Getenv("STARDOTS_KEY"), os.Getenv("STARDOTS_SECRET"),
//	    stardots.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	spaces, err := c.SpaceList(ctx, stardots.SpaceListRequest{Page: 1, PageSize: 20})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !spaces.Success {
//	    log.Fatalf("space list rejected: %d %s", spaces.Code, spaces.Message)
//	}
//	for _, s := range spaces.Data {
//	    fmt.Println(s.Name, s.FileCount)
//	}
//
// # Error Handling
//
// A response with Success false is not an error: it is returned as-is and
// the caller inspects Code and Message. Errors are reserved for exchanges
// that did not produce a usable envelope:
//
//	resp, err := c.UploadFile(ctx, req)
//	if err != nil {
//	    switch {
//	    case stardots.IsTimeout(err):
//	        // The call exceeded its timeout
//	    case stardots.IsStatusError(err):
//	        // HTTP status outside 2xx; resp may still hold the envelope
//	    case stardots.IsDecodeError(err):
//	        // The body was not JSON
//	    case stardots.IsValidationError(err):
//	        // Rejected before sending
//	    default:
//	        // Network failure
//	    }
//	}
//
// # Testing
//
// Package stardotstest runs an in-memory StarDots server that verifies
// request signatures:
//
//	srv := stardotstest.NewServer(t, "key", "secret")
//	c, _ := stardots.New("key", "secret", stardots.WithEndpoint(srv.URL))
package stardots
