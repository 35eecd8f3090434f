// Package tvdb provides a client for TheTVDB XML API.
//
// The client fetches plain XML records or the zip-packaged full record of a
// series and wraps them in Series, Episode and SearchResult values. Each
// value keeps a handle to the client that built it so related records can
// be fetched on demand:
//
//	client, err := tvdb.NewClient(apiKey, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.Search(ctx, "The Wire")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	series, err := results[0].Series(ctx, false)
//	seasons, err := series.Seasons(ctx) // one zip download, then memoised
//	pilot := seasons[1][1]
//	owner, err := pilot.Series(ctx) // bound to series, no round trip
//
// # Optional values
//
// Child elements that are absent or empty in the XML surface as
// mo.None. FirstAired, Banner, Poster and Image are derived from the raw
// stored values on every call; FirstAired returns the *time.ParseError of
// a malformed date instead of treating it as absent.
//
// # Errors
//
//   - ErrAPIKeyRequired: every call except Search needs an API key; it is
//     returned before any request is made
//   - ErrClientNotAvailable: lazy resolution on a value parsed without a client
//   - ErrNotFound: the response had no matching record
//   - *ResponseError: transport failure, non-2xx status or malformed payload;
//     errors.Is(err, ErrAPIResponse) matches it
//
// # Concurrency
//
// A Client may be shared between goroutines. Series and Episode populate
// their lazy fields without locking, so one instance must not be resolved
// from several goroutines at once.
package tvdb
