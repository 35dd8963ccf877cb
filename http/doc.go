// Package http is the public API of sockhttp: a minimal HTTP/1.1 client that
// writes GET and POST requests straight to a TCP socket and reads the
// response until the server closes the connection.
//
// Basic Usage:
//
//	client := http.NewClient(http.WithTimeout(10 * time.Second))
//
//	resp, err := client.Get(context.Background(), "http://example.com/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp) // "<code>\n<body>"
//
// Form POST:
//
//	form := url.Values{"user": {"alice"}}
//	resp, err := client.Post(ctx, "http://localhost:8080/login", form)
//
// Errors:
//
// Socket failures match ErrConnection and unparseable responses match
// ErrMalformedResponse with errors.Is.
//
// Only plain http on port 80 or an explicit port is supported. There is no
// TLS, no redirect following, no chunked decoding and no keep-alive.
package http
