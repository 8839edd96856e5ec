/*
Package provider fetches artifact bytes from the remote CDN.

	+-------------+     Render(id, name)     +-------------------------------+
	| URLTemplate | -----------------------> | https://host/files/6122/345/x |
	+-------------+                          +---------------+---------------+
	                                                         |
	                                                  +------v------+
	                                                  | HTTPFetcher | --> io.Writer
	                                                  +-------------+

The fetcher is a plain blocking GET. It has no retry: a failed fetch is
retried on the next sync run. Responses are sniffed before any byte reaches
the writer so an HTML error page is never saved as an artifact.

🔍 Example:

	f := provider.NewHTTPFetcher(provider.Options{UserAgent: "packsync"})
	u := provider.DefaultURLTemplate.Render(6122345, "Foo 1.2.jar")
	// https://mediafilez.forgecdn.net/files/6122/345/Foo%201.2.jar
	err := f.Fetch(ctx, u, file)
*/
package provider
