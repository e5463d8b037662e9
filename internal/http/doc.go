// Package http provides the HTTP client used to download archives.
//
// This package handles:
//   - Single-attempt GET requests with a bounded timeout
//   - Typed errors carrying the URL and status code of a failed request
//
// # Usage
//
//	client := http.NewClient(http.Options{
//	    Timeout: 15 * time.Minute,
//	})
//
//	resp, err := client.Get(ctx, url)
//	if err != nil {
//	    var se *http.StatusError
//	    if errors.As(err, &se) {
//	        // se.URL, se.StatusCode
//	    }
//	}
//	defer resp.Body.Close()
//
// Downloads are whole-file and sequential: there is no range-request,
// retry, or resume support here.
package http
